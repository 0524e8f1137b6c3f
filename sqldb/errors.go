package sqldb

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode classifies failures surfaced by the façade. Driver errors are
// never swallowed: they remain reachable through errors.Unwrap / Cause.
type ErrorCode string

const (
	// OpenFailed indicates the foreground or a pool session could not be
	// opened. Fatal at construction.
	OpenFailed ErrorCode = "open-failed"
	// PoolUnavailable indicates a pool was requested against a backend
	// which cannot support multiple sessions.
	PoolUnavailable ErrorCode = "pool-unavailable"
	// PrepareFailed indicates a query could not be prepared. The failed
	// query is not inserted into the statement cache.
	PrepareFailed ErrorCode = "prepare-failed"
	// ExecuteFailed indicates a driver-level execution error.
	ExecuteFailed ErrorCode = "execute-failed"
	// SchemaInitFailed indicates a Schema collaborator failed during
	// Initialize, which aborts initialization.
	SchemaInitFailed ErrorCode = "schema-init-failed"
)

// Error pairs an ErrorCode with human-readable context and the underlying
// driver error (when one exists).
type Error struct {
	Code  ErrorCode
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Cause supports github.com/pkg/errors traversal.
func (e *Error) Cause() error { return e.cause }

// NewErr builds an *Error with no underlying cause.
func NewErr(code ErrorCode, format string, args ...interface{}) error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...)}
}

// WrapErr builds an *Error around a driver error. A nil |cause| returns nil.
func WrapErr(cause error, code ErrorCode, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, msg: fmt.Sprintf(format, args...), cause: cause}
}

// IsError returns whether |err| is or wraps an *Error having |code|.
func IsError(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
