package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation collides with one already in progress.
var ErrConflict = errors.New("conflicting operation in progress")

// ErrLocked indicates an attempt to modify a price an admin has pinned.
var ErrLocked = errors.New("price is locked")

// ErrConfiguration indicates that a required rate or tax input is missing or unusable.
var ErrConfiguration = errors.New("pricing configuration error")

// ErrExternalDependency indicates that an upstream service (e.g. a rates provider) failed.
var ErrExternalDependency = errors.New("external dependency failure")

// AppError carries an HTTP-ish status code and a human readable message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewConfigurationError returns an AppError that matches ErrConfiguration.
func NewConfigurationError(message string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Message: message, Err: ErrConfiguration}
}
