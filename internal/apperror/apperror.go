package apperror

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication failed")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrForbidden      = errors.New("forbidden")
)

// AppError carries the client-facing message for a failed operation.
// Handlers pick the HTTP status via errors.Is against the sentinels above.
type AppError struct {
	Err     error  // taxonomy sentinel
	Message string // human-readable, rendered to the client verbatim
	Field   string // optional: first offending field
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func Conflict(field, message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message, Field: field}
}

func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func Authentication(message string) *AppError {
	return &AppError{Err: ErrAuthentication, Message: message}
}

func InvalidCode(message string) *AppError {
	return &AppError{Err: ErrInvalidCode, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}
