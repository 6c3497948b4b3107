// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Lifecycle errors, returned to callers of ingest/approve so they can
	// tell "already exists" apart from "did not qualify".
	ErrDuplicateSymbol   = &Error{Code: "DUPLICATE_SYMBOL", Message: "a live entity already exists for symbol"}
	ErrRetentionRejected = &Error{Code: "RETENTION_REJECTED", Message: "entity is on watch and fails retention criteria"}

	// Lookup errors
	ErrPendingNotFound = &Error{Code: "PENDING_NOT_FOUND", Message: "pending asset not found"}
	ErrAssetNotFound   = &Error{Code: "ASSET_NOT_FOUND", Message: "asset not found"}

	// Adapter errors, absorbed inside ingest/scan and only logged.
	ErrAdapterFailed  = &Error{Code: "ADAPTER_FAILED", Message: "source adapter failed"}
	ErrAdapterTimeout = &Error{Code: "ADAPTER_TIMEOUT", Message: "source adapter timed out"}

	// Boundary errors
	ErrInvalidSignal = &Error{Code: "INVALID_SIGNAL", Message: "malformed raw signal"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "audit archive write failed"}
)
