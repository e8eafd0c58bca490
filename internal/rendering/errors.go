// Package rendering renders the portfolio pages from embedded HTML templates.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing a page template
type TemplateError struct {
	Page    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %s: %v", e.Page, e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s: %s", e.Page, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
