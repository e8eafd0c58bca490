// Package fetch provides the HTTP plumbing shared by every upstream client: JSON GET/POST
// with typed errors, plus HTML-to-text helpers for post content.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PortfolioWeb/1.0)"

// MaxBodySize caps how much of an upstream response body is read.
const MaxBodySize = 5 << 20

// Result holds the raw content of a response.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Error represents an error talking to an upstream endpoint.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) httpClient() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: o.Timeout}
}

// URL performs a GET request and returns the raw response.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	return Do(ctx, http.MethodGet, urlStr, nil, opts)
}

// Do performs an HTTP request and returns the raw response. A non-2xx status is an
// error, but the Result is still returned so callers can inspect the body.
func Do(ctx context.Context, method, urlStr string, body []byte, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.httpClient().Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, &Error{
			URL:        urlStr,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        bodyBytes,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// GetJSON fetches urlStr and decodes the JSON body into out.
func GetJSON(ctx context.Context, urlStr string, opts *Options, out any) error {
	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	return decode(result, out)
}

// PostJSON encodes in as the request body, posts it to urlStr and decodes the reply into out.
// out may be nil when the reply body is not needed.
func PostJSON(ctx context.Context, urlStr string, in any, opts *Options, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	result, err := Do(ctx, http.MethodPost, urlStr, payload, opts)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(result, out)
}

func decode(result *Result, out any) error {
	if err := json.Unmarshal(result.Body, out); err != nil {
		return &Error{
			URL:        result.URL,
			Message:    "malformed JSON response",
			StatusCode: result.StatusCode,
			Cause:      err,
		}
	}
	return nil
}
