package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactRequest is the body posted to the contact endpoint.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactResponse is the contact endpoint reply; Message is shown to the visitor.
type ContactResponse struct {
	Message string `json:"message"`
}

// Trim removes surrounding whitespace from every field.
func (r *ContactRequest) Trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}

// Validate validates the ContactRequest using the validator.
func (r *ContactRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ProfileDocument using the validator.
func (d *ProfileDocument) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}
