package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound          = newErr(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists     = newErr(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation        = newErr(ErrCodeValidation, "validation error")
	ErrInvalidOperation  = newErr(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied  = newErr(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient        = newErr(ErrCodeHTTPClient, "http client error")
	ErrDatabase          = newErr(ErrCodeDatabase, "database error")
	ErrSystem            = newErr(ErrCodeSystemError, "system error")
	ErrAuthorityRejected = newErr(ErrCodeAuthorityRejected, "authority rejected the request")
	// ErrReconciliation marks local persistence failures that happen after the
	// authority already committed the external action. The local store and the
	// authority have diverged; this class must never be swallowed or reported
	// as an authority rejection.
	ErrReconciliation = newErr(ErrCodeReconciliation, "local state diverged from authority")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:        http.StatusInternalServerError,
		ErrDatabase:          http.StatusInternalServerError,
		ErrNotFound:          http.StatusNotFound,
		ErrAlreadyExists:     http.StatusConflict,
		ErrValidation:        http.StatusBadRequest,
		ErrInvalidOperation:  http.StatusBadRequest,
		ErrPermissionDenied:  http.StatusForbidden,
		ErrSystem:            http.StatusInternalServerError,
		ErrAuthorityRejected: http.StatusBadRequest,
		ErrReconciliation:    http.StatusInternalServerError,
	}
)

const (
	ErrCodeHTTPClient        = "http_client_error"
	ErrCodeSystemError       = "system_error"
	ErrCodeNotFound          = "not_found"
	ErrCodeAlreadyExists     = "already_exists"
	ErrCodeValidation        = "validation_error"
	ErrCodeInvalidOperation  = "invalid_operation"
	ErrCodePermissionDenied  = "permission_denied"
	ErrCodeDatabase          = "database_error"
	ErrCodeAuthorityRejected = "authority_rejected"
	ErrCodeReconciliation    = "reconciliation_required"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func newErr(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

// New creates a new InternalError with the given code
func New(code string, message string) *InternalError {
	return newErr(code, message)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

func IsAuthorityRejected(err error) bool {
	return errors.Is(err, ErrAuthorityRejected)
}

func IsReconciliation(err error) bool {
	return errors.Is(err, ErrReconciliation)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
