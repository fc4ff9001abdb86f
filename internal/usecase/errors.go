package usecase

import (
	"errors"
	"fmt"

	"theater-booking/pkg/utils"
)

// Error kinds returned to callers. Adaptors match them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a caller-facing failure: recoverable, and always mapped to a 4xx.
type Error struct {
	Kind     error
	Resource string
	Message  string
	Fields   map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(resource string, id any) error {
	return &Error{
		Kind:     ErrNotFound,
		Resource: resource,
		Message:  fmt.Sprintf("%s %v not found", resource, id),
	}
}

func conflict(resource, message string) error {
	return &Error{Kind: ErrConflict, Resource: resource, Message: message}
}

func validationFailed(fields map[string]string) error {
	return &Error{
		Kind:    ErrValidation,
		Message: "validation failed: " + utils.FormatValidationErrors(fields),
		Fields:  fields,
	}
}

func invalidField(field, message string) error {
	return validationFailed(map[string]string{field: message})
}

func unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// validate runs struct tag validation and converts failures to ErrValidation.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationFailed(errs)
	}
	return nil
}
