package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrValidation
	ErrGateway
	ErrParse
	ErrUnsupportedInput
	ErrPersistence
	ErrConflict
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// Validation signals input rejected before any remote call was made,
// e.g. an unsupported image type.
func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

// Gateway signals a non-success HTTP status from the model endpoint.
func Gateway(status int, body string) *AppError {
	return &AppError{
		Code:    ErrGateway,
		Message: fmt.Sprintf("model endpoint returned status %d", status),
		Err:     fmt.Errorf("status %d: %s", status, body),
	}
}

// Parse signals a model reply that contained no recoverable JSON object.
func Parse(message string, err error) *AppError {
	return &AppError{
		Code:    ErrParse,
		Message: message,
		Err:     err,
	}
}

// UnsupportedInput signals an operation that is meaningless for the
// given input, e.g. building a report for a non-skin analysis.
func UnsupportedInput(message string) *AppError {
	return &AppError{
		Code:    ErrUnsupportedInput,
		Message: message,
	}
}

// Persistence signals a local store write failure.
func Persistence(err error) *AppError {
	return &AppError{
		Code:    ErrPersistence,
		Message: "failed to persist data",
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

// CodeOf returns the application error code, or ErrInternal when err is
// not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
