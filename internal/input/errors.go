// Package input converts raw text fields into typed, range-checked values
// and collects every failure into a single structured error list.
package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/moneyball/internal/models"
)

// Kind classifies a field failure
type Kind string

const (
	KindMissing   Kind = "missing"
	KindMalformed Kind = "malformed"
	KindDomain    Kind = "domain"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap maps the kind onto the shared sentinel errors
func (e *FieldError) Unwrap() error {
	if e.Kind == KindDomain {
		return models.ErrDomainViolation
	}
	return models.ErrMalformedInput
}

// ValidationErrors is the list of field failures from one form.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Unwrap exposes each field error to errors.Is and errors.As
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, fe := range v {
		errs[i] = fe
	}
	return errs
}

// Fields returns the names of the rejected fields in order
func (v ValidationErrors) Fields() []string {
	names := make([]string, len(v))
	for i, fe := range v {
		names[i] = fe.Field
	}
	return names
}

// AsValidationErrors extracts the field list from err, wrapping any other
// error as a single domain failure on field.
func AsValidationErrors(err error, field string) ValidationErrors {
	if err == nil {
		return nil
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return ValidationErrors{fe}
	}
	return ValidationErrors{fieldErrorFrom(field, err)}
}

func fieldErrorFrom(field string, err error) *FieldError {
	kind := KindDomain
	if errors.Is(err, models.ErrMalformedInput) {
		kind = KindMalformed
	}
	return &FieldError{Field: field, Kind: kind, Message: err.Error()}
}
