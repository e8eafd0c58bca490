package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
)

// Source returns the localized profile document for a language.
type Source interface {
	Fetch(ctx context.Context, lang types.Language) (*types.ProfileDocument, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, lang types.Language) (*types.ProfileDocument, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, lang types.Language) (*types.ProfileDocument, error) {
	return f(ctx, lang)
}

// HTTPSource fetches profile documents from the profile API at {BaseURL}/api/{lang}.
type HTTPSource struct {
	baseURL string
	options *fetch.Options
}

// NewHTTPSource creates a source for the API rooted at baseURL.
func NewHTTPSource(baseURL string, opts *fetch.Options) *HTTPSource {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		options: opts,
	}
}

// URL returns the endpoint for lang.
func (s *HTTPSource) URL(lang types.Language) string {
	return s.baseURL + "/api/" + url.PathEscape(lang.String())
}

// Fetch implements Source. The payload must satisfy the profile JSON Schema and the
// struct validation rules; anything else is an error so callers take the fallback path.
func (s *HTTPSource) Fetch(ctx context.Context, lang types.Language) (*types.ProfileDocument, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues("profile").Observe(time.Since(start).Seconds())
	}()

	result, err := fetch.URL(ctx, s.URL(lang), s.options)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("profile", metrics.OutcomeError).Inc()
		return nil, err
	}

	doc, err := Decode(result.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("profile", metrics.OutcomeInvalid).Inc()
		return nil, fmt.Errorf("invalid profile from %s: %w", result.URL, err)
	}

	metrics.UpstreamRequests.WithLabelValues("profile", metrics.OutcomeSuccess).Inc()
	return doc, nil
}

// Decode parses and validates a raw profile payload.
func Decode(data []byte) (*types.ProfileDocument, error) {
	if err := schemas.ValidateProfile(data); err != nil {
		return nil, err
	}

	var doc types.ProfileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	doc.Normalize()

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
