package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/portfolio/internal/blog"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/projects"
	"github.com/jonathan/portfolio/internal/schemas"
)

// ErrUnsupportedLanguage indicates a language code outside the supported set
type ErrUnsupportedLanguage struct {
	Code string
}

func (e *ErrUnsupportedLanguage) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Code)
}

// ErrProfileUnavailable indicates no profile document has been installed yet
type ErrProfileUnavailable struct{}

func (e *ErrProfileUnavailable) Error() string {
	return "profile is not available yet"
}

// ErrBadRequest indicates a malformed request body
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		langErr   *ErrUnsupportedLanguage
		badReq    *ErrBadRequest
		unavail   *ErrProfileUnavailable
		verrs     validator.ValidationErrors
		schemaErr *schemas.ValidationError
		rateErr   *projects.RateLimitError
		fetchErr  *fetch.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &langErr), errors.As(err, &badReq), errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, blog.ErrNotFound), projects.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &unavail), errors.As(err, &rateErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &schemaErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
