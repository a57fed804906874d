package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error carrying a stable code and a message the
// UI layer can display verbatim.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the business rules this layer enforces.
var (
	ErrNotFound              = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrDuplicateEnrollment   = New("DUPLICATE_ENROLLMENT", http.StatusConflict, "student is already enrolled in this course")
	ErrNotEnrolled           = New("NOT_ENROLLED", http.StatusConflict, "student is not enrolled in this course")
	ErrGradeOutOfRange       = New("GRADE_OUT_OF_RANGE", http.StatusBadRequest, "grade must be between 0 and 20")
	ErrServiceAlreadyActive  = New("SERVICE_ALREADY_ACTIVE", http.StatusConflict, "student already benefits from this service")
	ErrUnsupportedCourseType = New("UNSUPPORTED_COURSE_TYPE", http.StatusBadRequest, "unsupported course type")
	ErrValidation            = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrCacheMiss             = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal              = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
