package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/portfolio/internal/blog"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/projects"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
)

func TestErrUnsupportedLanguage(t *testing.T) {
	err := &ErrUnsupportedLanguage{Code: "fr"}
	assert.Equal(t, "unsupported language: fr", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrProfileUnavailable(t *testing.T) {
	err := &ErrProfileUnavailable{}
	assert.Equal(t, "profile is not available yet", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	validationErr := (&types.ContactRequest{}).Validate()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"bad request", &ErrBadRequest{Message: "unexpected EOF"}, http.StatusBadRequest},
		{"validation", validationErr, http.StatusBadRequest},
		{"post not found", fmt.Errorf("post x: %w", blog.ErrNotFound), http.StatusNotFound},
		{"repo not found", &projects.APIError{StatusCode: 404}, http.StatusNotFound},
		{"github rate limit", &projects.RateLimitError{}, http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"upstream", &fetch.Error{URL: "http://api", StatusCode: 500}, http.StatusBadGateway},
		{"schema", &schemas.ValidationError{}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
