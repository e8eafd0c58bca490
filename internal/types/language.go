// Package types provides type definitions for the data rendered by the portfolio front-end.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// Language is a UI/content language code. Only the values in SupportedLanguages are valid.
type Language string

const (
	// Spanish is the default language of the portfolio.
	Spanish Language = "es"
	// English is the alternate language.
	English Language = "en"
)

// DefaultLanguage is used when a visitor has not picked a language yet.
const DefaultLanguage = Spanish

// SupportedLanguages lists the closed set of language codes in toggle order.
var SupportedLanguages = []Language{Spanish, English}

// ParseLanguage normalizes and validates a language code.
func ParseLanguage(s string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(s)))
	if lang.Valid() {
		return lang, nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// LanguageOrDefault parses s and falls back to DefaultLanguage when it is not supported.
func LanguageOrDefault(s string) Language {
	lang, err := ParseLanguage(s)
	if err != nil {
		return DefaultLanguage
	}
	return lang
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	for _, s := range SupportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// Locale returns the BCP 47 tag used for date formatting.
func (l Language) Locale() string {
	if l == English {
		return "en-US"
	}
	return "es-ES"
}

func (l Language) String() string { return string(l) }
