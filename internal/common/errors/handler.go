// internal/common/errors/handler.go
package errors

// Process exit codes returned by ErrorHandler.Handle.
const (
	ExitOK          = 0
	ExitInternal    = 1
	ExitUsage       = 2
	ExitSourceRead  = 3
	ExitNotFound    = 4
	ExitUnavailable = 5
)

// ErrorHandler turns pipeline errors into a logged record and an exit code.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err and returns the exit code the process should terminate with.
func (h *ErrorHandler) Handle(operation string, err error) int {
	if err == nil {
		return ExitOK
	}

	stdErr := Normalize(err)
	h.logError(operation, stdErr)
	return ExitCode(stdErr.Code)
}

// ExitCode maps an error code to a process exit code.
func ExitCode(code ErrorCode) int {
	switch code {
	case ErrCodeSourceReadFailed:
		return ExitSourceRead
	case ErrCodeCandidateNotFound:
		return ExitNotFound
	case ErrCodeInvalidLayout, ErrCodeInvalidInput, ErrCodeConfigInvalid, ErrCodeLayoutRegistryInvalid:
		return ExitUsage
	case ErrCodeCacheUnavailable, ErrCodeNotificationFailed:
		return ExitUnavailable
	default:
		return ExitInternal
	}
}

func (h *ErrorHandler) logError(operation string, stdErr *StandardError) {
	fields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if IsRetryableErrorCode(stdErr.Code) {
		fields["retries"] = GetRetryCount(stdErr.Code)
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	h.logger.Error("operation failed", fields)
}
