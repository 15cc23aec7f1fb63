// Package errors provides standardized error handling for registry lookups.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidQuery   ErrorCode = "INVALID_QUERY"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeTransport      ErrorCode = "TRANSPORT_ERROR"
	ErrCodeSourceTimeout  ErrorCode = "SOURCE_TIMEOUT"
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e after adding a metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidQueryError creates a non-retryable query validation error.
func NewInvalidQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuery,
		Message:   "Invalid query",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable not-found error for a source.
func NewNotFoundError(source, orgNumber string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Organization not found",
		Details:   fmt.Sprintf("source: %s, orgNumber: %s", source, orgNumber),
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source, "orgNumber": orgNumber},
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable error for an unreachable source.
func NewTransportError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("Source '%s' unreachable", source),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStatusError creates an error for an unexpected HTTP status from a source.
// Server errors and rate limiting are retryable, everything else is not.
func NewStatusError(source string, statusCode int) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("Source '%s' returned HTTP %d", source, statusCode),
		Details:   fmt.Sprintf("statusCode: %d", statusCode),
		Retryable: statusCode == 429 || statusCode >= 500,
		Metadata:  map[string]interface{}{"source": source, "statusCode": statusCode},
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceTimeoutError creates a retryable timeout error.
func NewSourceTimeoutError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceTimeout,
		Message:   fmt.Sprintf("Source '%s' timeout", source),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidPayloadError creates a non-retryable error for a malformed response document.
func NewInvalidPayloadError(source, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   fmt.Sprintf("Source '%s' returned an invalid document", source),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a configuration error.
func NewConfigInvalidError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound)
}

// IsRetryable reports whether err is a StandardError flagged retryable.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "QUERY"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "PAYLOAD"):
		return "SOURCE"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "OTHER"
	}
}

// Process exit codes used by the CLI.
const (
	ExitOK        = 0
	ExitNoResults = 1
	ExitUsage     = 2
	ExitSource    = 3
	ExitInternal  = 4

	ExitInterrupted = 130
)

// ExitCode maps an error to the CLI exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch Normalize(err).Code {
	case ErrCodeNotFound:
		return ExitNoResults
	case ErrCodeInvalidQuery, ErrCodeConfigInvalid:
		return ExitUsage
	case ErrCodeTransport, ErrCodeSourceTimeout, ErrCodeInvalidPayload:
		return ExitSource
	default:
		return ExitInternal
	}
}
