package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies pipeline failures.
type ErrorCode string

const (
	// CONFIG_ERROR means missing credentials or a missing external tool.
	// Fatal at startup, before any processing.
	CONFIG_ERROR ErrorCode = "CONFIG_ERROR"

	// SPLIT_FAILED means the external splitting tool was unavailable or
	// exited non-zero. Fatal for that source file only.
	SPLIT_FAILED ErrorCode = "SPLIT_FAILED"

	// RATE_LIMITED means the remote service rejected the call with a
	// rate-limit response. Retryable.
	RATE_LIMITED ErrorCode = "RATE_LIMITED"

	// SERVER_ERROR means a transient server or network fault. Retryable.
	SERVER_ERROR ErrorCode = "SERVER_ERROR"

	// AUTH_ERROR means the remote service rejected our credentials.
	AUTH_ERROR ErrorCode = "AUTH_ERROR"

	// INVALID_INPUT means the remote service rejected the request payload.
	INVALID_INPUT ErrorCode = "INVALID_INPUT"

	// TASK_FAILED is the terminal state of a task after retries are
	// exhausted or a non-retryable error occurred.
	TASK_FAILED ErrorCode = "TASK_FAILED"

	// CANCELED means the task was dropped because the run was interrupted.
	CANCELED ErrorCode = "CANCELED"
)

// Error is a code-classified pipeline error.
type Error struct {
	Code    ErrorCode
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

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether a retry with backoff may succeed.
func (e *Error) Retryable() bool {
	return e.Code == RATE_LIMITED || e.Code == SERVER_ERROR
}

// NewError creates a classified pipeline error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the error code from an error chain. Unclassified errors
// report TASK_FAILED.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return TASK_FAILED
}
