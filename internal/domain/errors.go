package domain

import "errors"

// Error codes as they appear on the wire.
const (
	CodeAuthInvalid = "auth_invalid"
	CodeForbidden   = "forbidden"
	CodeNotFound    = "not_found"
	CodeStorage     = "storage_error"
	CodeValidation  = "validation_error"
	CodeInternal    = "internal"
)

var (
	ErrCredentialRequired = errors.New("credential required")
	ErrCredentialInvalid  = errors.New("credential invalid")

	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// Code maps err onto the error taxonomy. Unknown errors are "internal".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCredentialRequired), errors.Is(err, ErrCredentialInvalid):
		return CodeAuthInvalid
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrStorage):
		return CodeStorage
	default:
		return CodeInternal
	}
}
