// Package contact submits contact form messages to the backend.
package contact

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/types"
)

// Sender submits contact requests.
type Sender interface {
	Send(ctx context.Context, req types.ContactRequest) (*types.ContactResponse, error)
}

// Client posts contact requests as JSON to a fixed endpoint.
type Client struct {
	endpoint string
	options  *fetch.Options
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts *fetch.Options) *Client {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Client{endpoint: endpoint, options: opts}
}

// Send trims and validates req, then posts exactly its three fields. Validation
// failures are returned as validator.ValidationErrors without contacting the backend.
func (c *Client) Send(ctx context.Context, req types.ContactRequest) (*types.ContactResponse, error) {
	req.Trim()
	if err := req.Validate(); err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	var resp types.ContactResponse
	if err := fetch.PostJSON(ctx, c.endpoint, req, c.options, &resp); err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return &resp, nil
}

// InvalidFields returns the lower-cased names of the fields that failed validation,
// sorted, or nil if err is not a validation error.
func InvalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	seen := make(map[string]bool, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		if !seen[name] {
			seen[name] = true
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}
