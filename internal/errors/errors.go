package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Psalter error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrBusy              ErrorCode = "BUSY"               // 409
	ErrNoReference       ErrorCode = "NO_REFERENCE"       // 422
	ErrNoVerses          ErrorCode = "NO_VERSES"          // 404
	ErrCorpusUnavailable ErrorCode = "CORPUS_UNAVAILABLE" // 500
	ErrNormalizerFailed  ErrorCode = "NORMALIZER_FAILED"  // 502
	ErrNormalizerEmpty   ErrorCode = "NORMALIZER_EMPTY"   // 502
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// PsalterError represents a structured error with code, status, and details.
type PsalterError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PsalterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PsalterError {
	return &PsalterError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewBusy creates a 409 error for when a lookup is already in flight.
func NewBusy() *PsalterError {
	return &PsalterError{
		Code:    ErrBusy,
		Status:  409,
		Message: "a lookup is already in progress",
	}
}

// NewNoReference creates a 422 error for input with no recognizable reference.
func NewNoReference(input string) *PsalterError {
	return &PsalterError{
		Code:    ErrNoReference,
		Status:  422,
		Message: "could not understand the reference",
		Details: map[string]any{"input": input},
	}
}

// NewNoVerses creates a 404 error for when the combined result is empty.
func NewNoVerses() *PsalterError {
	return &PsalterError{
		Code:    ErrNoVerses,
		Status:  404,
		Message: "no verses found",
	}
}

// NewCorpusUnavailable creates a 500 error for a missing or malformed corpus.
func NewCorpusUnavailable(err error) *PsalterError {
	msg := "corpus unavailable"
	if err != nil {
		msg = fmt.Sprintf("corpus unavailable: %v", err)
	}
	return &PsalterError{
		Code:    ErrCorpusUnavailable,
		Status:  500,
		Message: msg,
	}
}

// NewNormalizerFailed creates a 502 error for a failed normalization call.
func NewNormalizerFailed(err error) *PsalterError {
	msg := "normalizer failed"
	if err != nil {
		msg = fmt.Sprintf("normalizer failed: %v", err)
	}
	return &PsalterError{
		Code:    ErrNormalizerFailed,
		Status:  502,
		Message: msg,
	}
}

// NewNormalizerEmpty creates a 502 error for a normalizer that returned nothing.
func NewNormalizerEmpty() *PsalterError {
	return &PsalterError{
		Code:    ErrNormalizerEmpty,
		Status:  502,
		Message: "normalizer returned no usable text",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PsalterError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PsalterError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a PsalterError with the given code.
func Is(err error, code ErrorCode) bool {
	var pErr *PsalterError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}
