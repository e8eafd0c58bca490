package fetch

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used for read-time estimates.
const WordsPerMinute = 200

// unsafeSelectors are removed from post HTML before it is rendered. SVG and MathML
// are dropped whole since their animation elements can rewrite attributes.
const unsafeSelectors = "script, style, iframe, frame, frameset, object, embed, applet, form, " +
	"input, button, textarea, select, noscript, template, link, meta, base, " +
	"svg, math, animate, set, animatemotion, animatetransform"

// allowedAttrs lists the attributes kept on post elements.
var allowedAttrs = map[string]bool{
	"href": true, "src": true, "alt": true, "title": true,
	"class": true, "id": true, "width": true, "height": true,
	"loading": true, "target": true, "rel": true, "lang": true, "dir": true,
	"colspan": true, "rowspan": true, "start": true, "reversed": true,
	"cite": true, "datetime": true, "align": true,
}

// urlAttrs are checked for script URLs.
var urlAttrs = map[string]bool{"href": true, "src": true, "cite": true}

// PlainText parses HTML and returns its visible text with whitespace normalized.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	return cleanWhitespace(doc.Find("body").Text()), nil
}

// Sanitize strips active content from post HTML. Unsafe elements are removed, only
// allowlisted attributes survive and script URLs are dropped. It returns the body's
// inner HTML.
func Sanitize(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(unsafeSelectors).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		kept := node.Attr[:0]
		for _, attr := range node.Attr {
			key := strings.ToLower(attr.Key)
			if attr.Namespace != "" || !allowedAttrs[key] {
				continue
			}
			if urlAttrs[key] && isScriptURL(attr.Val) {
				continue
			}
			kept = append(kept, attr)
		}
		node.Attr = kept
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Summarize returns the first maxChars of the HTML's text, cut at a word boundary.
func Summarize(html string, maxChars int) (string, error) {
	text, err := PlainText(html)
	if err != nil {
		return "", err
	}
	text = strings.Join(strings.Fields(text), " ")
	if len([]rune(text)) <= maxChars {
		return text, nil
	}
	runes := []rune(text)[:maxChars]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…", nil
}

// ReadTimeMinutes estimates how long the text takes to read, never less than one minute.
func ReadTimeMinutes(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// isScriptURL reports whether v runs code when followed. Browsers ignore control
// characters and whitespace inside the scheme, so all of them are dropped first.
func isScriptURL(v string) bool {
	v = strings.ToLower(strings.Map(func(r rune) rune {
		if r <= 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:") || strings.HasPrefix(v, "data:text/html")
}

// cleanWhitespace normalizes whitespace in text.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
