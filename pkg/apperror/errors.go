package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for the boundary layer.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindBusinessRule Kind = "BUSINESS_RULE"
	KindValidation   Kind = "VALIDATION"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Kind       Kind     `json:"-"`
	Code       string   `json:"error_code"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	HTTPStatus int      `json:"-"`
	Err        error    `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(e.Details, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(kind Kind, code string, message string, httpStatus int) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// KindOf returns the kind of the first AppError in err's chain.
// Errors that carry no AppError are reported as KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ---- Lookup (ACC) ----

func ErrAccountNotFound() *AppError {
	return New(KindNotFound, "ACC_404", "Bank Account not found", http.StatusNotFound)
}

func ErrNotFound(entity string) *AppError {
	return New(KindNotFound, "ACC_404", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Business rules (BIZ) ----

func ErrBusinessRule(message string) *AppError {
	return New(KindBusinessRule, "BIZ_001", message, http.StatusUnprocessableEntity)
}

func ErrInsufficientFunds() *AppError {
	return New(KindBusinessRule, "BIZ_002", "Insufficient funds", http.StatusUnprocessableEntity)
}

func ErrCurrencyMismatch() *AppError {
	return New(KindBusinessRule, "BIZ_003", "Bank Accounts must have same currency", http.StatusUnprocessableEntity)
}

// ---- Request shaping (VAL) ----

// ErrValidation reports every collected violation at once.
func ErrValidation(details ...string) *AppError {
	e := New(KindValidation, "VAL_001", "Validation failed", http.StatusBadRequest)
	e.Details = details
	return e
}

// ---- Concurrency (CON) ----

func ErrConcurrencyConflict(err error) *AppError {
	return Wrap(KindConflict, "CON_001", "Concurrent modification, retry the operation", http.StatusConflict, err)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(KindInternal, "SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(KindInternal, "SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
