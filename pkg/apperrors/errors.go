package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
)

// Stable machine-readable error codes surfaced to API clients.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
	CodeDBQuery      = "DB_QUERY_ERROR"
	CodeDBConstraint = "DB_CONSTRAINT_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Timestamp  time.Time
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewInternalError wraps an unexpected failure. The wrapped cause is kept for
// logs and never rendered in the caller-visible message.
func NewInternalError(message string, err error) error {
	if message == "" {
		message = "internal server error"
	}
	de := NewDomainError(CodeInternal, message, http.StatusInternalServerError, nil)
	de.Err = err
	return de
}

// NewQueryError marks an unrecognized storage failure.
func NewQueryError(message string, err error) error {
	de := NewDomainError(CodeDBQuery, message, http.StatusInternalServerError, nil)
	de.Err = err
	return de
}

// NewConstraintError marks a storage-level uniqueness violation.
func NewConstraintError(message string) error {
	return NewDomainError(CodeDBConstraint, message, http.StatusConflict, nil)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, nil)
	}
	de := NewDomainError(CodeInternal, "internal server error", http.StatusInternalServerError, nil)
	de.Err = err
	return de
}
