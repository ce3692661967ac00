package types

import (
	"errors"
	"fmt"
)

// Request error kinds. Every failure reported to a caller wraps exactly one of
// these; use errors.Is to test the kind.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrUnknownUser   = errors.New("unknown user")
	ErrUnknownAction = errors.New("unknown action")
	ErrInternal      = errors.New("internal error")
)

// Store errors.
var (
	ErrDetached         = errors.New("store is detached")
	ErrAlreadyAttached  = errors.New("store is already attached")
	ErrWorkbookNotFound = errors.New("workbook not found")
	ErrSheetNotFound    = errors.New("sheet not found")
	ErrSheetExists      = errors.New("sheet already exists")
	ErrInvalidRange     = errors.New("invalid cell range")
)

// RequestError is a caller-facing failure. Error returns Message verbatim so
// it can be placed in a response envelope; Unwrap exposes Kind.
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Kind }

// Validationf returns a RequestError of kind ErrValidation.
func Validationf(format string, args ...any) error {
	return &RequestError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a RequestError of kind ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return &RequestError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Classify returns the request error kind carried by err. Errors that carry
// no kind, including raw store failures, classify as ErrInternal.
func Classify(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrUnknownUser, ErrUnknownAction} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
