// Package errors provides standardized error handling for the report pipeline.
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
	ErrCodeSourceReadFailed      ErrorCode = "SOURCE_READ_FAILED"
	ErrCodeCandidateNotFound     ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrCodeInvalidLayout         ErrorCode = "INVALID_LAYOUT"
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrCodeReportWriteFailed     ErrorCode = "REPORT_WRITE_FAILED"
	ErrCodeCacheUnavailable      ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeNotificationFailed    ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeConfigInvalid         ErrorCode = "CONFIG_INVALID"
	ErrCodeLayoutRegistryInvalid ErrorCode = "LAYOUT_REGISTRY_INVALID"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Typed Pipeline Errors
// ==========================

// SourceReadError reports a source document that could not be read. It is
// fatal to the whole batch: no partial record set is ever produced.
type SourceReadError struct {
	Source    string
	Sheet     string
	HeaderRow int
	Cause     error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read source %q: %v", e.Source, e.Cause)
}

func (e *SourceReadError) Unwrap() error {
	return e.Cause
}

// Hint tells the caller what the document is expected to look like.
func (e *SourceReadError) Hint() string {
	return fmt.Sprintf("check that %q contains a sheet named %q with column names on row %d",
		e.Source, e.Sheet, e.HeaderRow)
}

// NewSourceReadError wraps cause with the originating file and the expected contract.
func NewSourceReadError(source, sheet string, headerRow int, cause error) *SourceReadError {
	return &SourceReadError{
		Source:    source,
		Sheet:     sheet,
		HeaderRow: headerRow,
		Cause:     cause,
	}
}

// CandidateNotFoundError reports a report request for an identity with no records.
type CandidateNotFoundError struct {
	Candidate string
}

func (e *CandidateNotFoundError) Error() string {
	return fmt.Sprintf("candidate %q not found in record set", e.Candidate)
}

// NewCandidateNotFoundError creates a CandidateNotFoundError.
func NewCandidateNotFoundError(candidate string) *CandidateNotFoundError {
	return &CandidateNotFoundError{Candidate: candidate}
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidLayoutError creates a non-retryable layout selection error.
func NewInvalidLayoutError(layout string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidLayout,
		Message:   "Unsupported report layout",
		Details:   fmt.Sprintf("layout: %s", layout),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportWriteFailedError creates a non-retryable document encoding error.
func NewReportWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportWriteFailed,
		Message:   "Failed to write report document",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCacheUnavailableError creates a retryable cache backend error.
func NewCacheUnavailableError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Record cache unavailable",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationFailedError creates a retryable notification error.
func NewNotificationFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Failed to send notification",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewConfigInvalidError creates a non-retryable configuration error.
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

// NewLayoutRegistryInvalidError creates a non-retryable layout registry error.
func NewLayoutRegistryInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLayoutRegistryInvalid,
		Message:   "Layout registry failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Normalization
// ==========================

// Normalize converts any error into a StandardError, keeping the original
// reachable through errors.Unwrap.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var srcErr *SourceReadError
	if stderrors.As(err, &srcErr) {
		return &StandardError{
			Code:      ErrCodeSourceReadFailed,
			Message:   "Failed to read source document",
			Details:   srcErr.Error(),
			Retryable: false,
			Metadata: map[string]interface{}{
				"source": srcErr.Source,
				"hint":   srcErr.Hint(),
			},
			Timestamp: time.Now().UTC(),
			cause:     err,
		}
	}

	var nfErr *CandidateNotFoundError
	if stderrors.As(err, &nfErr) {
		return &StandardError{
			Code:      ErrCodeCandidateNotFound,
			Message:   "Candidate not found",
			Details:   nfErr.Error(),
			Retryable: false,
			Metadata: map[string]interface{}{
				"candidate": nfErr.Candidate,
			},
			Timestamp: time.Now().UTC(),
			cause:     err,
		}
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
// 5. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCacheUnavailable:
		return 2
	case ErrCodeNotificationFailed:
		return 3
	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SOURCE"):
		return "INPUT"
	case strings.Contains(codeStr, "CANDIDATE"), strings.Contains(codeStr, "LAYOUT"), strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
