package ecommerce

import (
	"errors"
	"fmt"
)

var (
	ErrMissingIdentifier    = errors.New("one of id or name is required")
	ErrMissingTransactionID = errors.New("transaction id is required")
	ErrInvalidDiscriminator = errors.New("event does not match ecommerce payload")
	ErrMalformedShape       = errors.New("malformed ecommerce payload")
)

// FieldError ties a validation failure to the path of the offending field,
// e.g. "ecommerce.add.products[1]". It unwraps to one of the sentinel errors.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e *FieldError) Unwrap() error { return e.Err }

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

func malformed(field, format string, args ...any) error {
	return fieldError(field, fmt.Errorf("%w: "+format, append([]any{ErrMalformedShape}, args...)...))
}
