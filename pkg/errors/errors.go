package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrInternalServer  = errors.New("internal server error")
	ErrTranscodeFailed = errors.New("transcode failed")
	ErrUploadFailed    = errors.New("upload failed")
	ErrDeleteFailed    = errors.New("delete failed")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid returns an ErrInvalidRequest carrying a client-facing message.
func Invalid(message string) error {
	return &Error{Code: "invalid_request", Message: message, Err: ErrInvalidRequest}
}

// NotFound returns an ErrNotFound carrying a client-facing message.
func NotFound(message string) error {
	return &Error{Code: "not_found", Message: message, Err: ErrNotFound}
}

// Forbidden returns an ErrForbidden carrying a client-facing message.
func Forbidden(message string) error {
	return &Error{Code: "forbidden", Message: message, Err: ErrForbidden}
}

// Unauthorized returns an ErrUnauthorized carrying a client-facing message.
func Unauthorized(message string) error {
	return &Error{Code: "unauthorized", Message: message, Err: ErrUnauthorized}
}

// Conflict returns an ErrConflict carrying a client-facing message.
func Conflict(message string) error {
	return &Error{Code: "conflict", Message: message, Err: ErrConflict}
}

// Kind wraps cause under one of the sentinel errors so errors.Is matches both.
func Kind(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join is errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err onto the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized returns true if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden returns true if the error is a forbidden error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsInvalidRequest returns true if the error is a client input error
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsTranscodeFailed returns true if the error came from the encoding engine
func IsTranscodeFailed(err error) bool {
	return errors.Is(err, ErrTranscodeFailed)
}

// IsUploadFailed returns true if the error came from the remote media store
func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}
