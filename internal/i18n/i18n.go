// Package i18n holds the localized UI strings for every supported language.
package i18n

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/jonathan/portfolio/internal/types"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog maps message ids to their translations.
type Catalog map[string]map[types.Language]string

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

// Parse decodes a catalog and checks that every message has every supported language.
func Parse(data []byte) (Catalog, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	catalog := make(Catalog, len(raw))
	for key, translations := range raw {
		entry := make(map[types.Language]string, len(translations))
		for code, text := range translations {
			lang, err := types.ParseLanguage(code)
			if err != nil {
				return nil, fmt.Errorf("message %q: %w", key, err)
			}
			entry[lang] = text
		}
		for _, lang := range types.SupportedLanguages {
			if _, ok := entry[lang]; !ok {
				return nil, fmt.Errorf("message %q is missing language %q", key, lang)
			}
		}
		catalog[key] = entry
	}
	return catalog, nil
}

// Default returns the embedded catalog. It panics if the embedded file is invalid,
// which the package tests guard against.
func Default() Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultCatalog
}

// T returns the message for key in lang from the embedded catalog.
func T(lang types.Language, key string) string {
	return Default().T(lang, key)
}

// T returns the message for key in lang, falling back to the default language and
// finally to the key itself.
func (c Catalog) T(lang types.Language, key string) string {
	entry, ok := c[key]
	if !ok {
		return key
	}
	if text, ok := entry[lang]; ok {
		return text
	}
	if text, ok := entry[types.DefaultLanguage]; ok {
		return text
	}
	return key
}

// For returns a lookup bound to one language, for use as a template function.
func (c Catalog) For(lang types.Language) func(key string) string {
	return func(key string) string { return c.T(lang, key) }
}
