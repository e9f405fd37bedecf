package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	msgs   []string
	fields []map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.msgs = append(r.msgs, msg)
	r.fields = append(r.fields, fields)
}

func TestSourceReadError_WrapsCauseAndHints(t *testing.T) {
	cause := stderrors.New("sheet 평가표 does not exist")
	err := NewSourceReadError("reviewer-a.xlsx", "평가표", 5, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "reviewer-a.xlsx")
	assert.Contains(t, err.Hint(), "평가표")
	assert.Contains(t, err.Hint(), "row 5")

	wrapped := fmt.Errorf("load batch: %w", err)
	var target *SourceReadError
	require.True(t, stderrors.As(wrapped, &target))
	assert.Equal(t, "reviewer-a.xlsx", target.Source)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
		wantExit int
	}{
		{
			name:     "source read error",
			err:      fmt.Errorf("load: %w", NewSourceReadError("a.xlsx", "평가표", 5, stderrors.New("corrupt"))),
			wantCode: ErrCodeSourceReadFailed,
			wantExit: ExitSourceRead,
		},
		{
			name:     "candidate not found",
			err:      NewCandidateNotFoundError("Lee"),
			wantCode: ErrCodeCandidateNotFound,
			wantExit: ExitNotFound,
		},
		{
			name:     "standard error passes through",
			err:      NewInvalidLayoutError("poster"),
			wantCode: ErrCodeInvalidLayout,
			wantExit: ExitUsage,
		},
		{
			name:     "cache unavailable",
			err:      NewCacheUnavailableError("get", stderrors.New("dial tcp")),
			wantCode: ErrCodeCacheUnavailable,
			wantExit: ExitUnavailable,
		},
		{
			name:     "plain error",
			err:      stderrors.New("boom"),
			wantCode: ErrCodeInternal,
			wantExit: ExitInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := Normalize(tt.err)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.wantExit, ExitCode(stdErr.Code))
		})
	}

	assert.Nil(t, Normalize(nil))
}

func TestNormalize_KeepsCauseReachable(t *testing.T) {
	cause := stderrors.New("encode failed")
	stdErr := Normalize(NewReportWriteFailedError(cause))
	assert.ErrorIs(t, stdErr, cause)
}

func TestErrorHandler_Handle(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	assert.Equal(t, ExitOK, h.Handle("report", nil))
	assert.Empty(t, log.msgs)

	code := h.Handle("report", NewCandidateNotFoundError("Park"))
	assert.Equal(t, ExitNotFound, code)
	require.Len(t, log.fields, 1)
	assert.Equal(t, "report", log.fields[0]["operation"])
	assert.Equal(t, "CANDIDATE_NOT_FOUND", log.fields[0]["errorCode"])
	assert.Equal(t, "Park", log.fields[0]["candidate"])
	assert.Equal(t, "REPORT", log.fields[0]["errorCategory"])
	assert.NotContains(t, log.fields[0], "retries")
}

func TestErrorHandler_LogsRetriesForRetryableCodes(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	code := h.Handle("deliver", NewNotificationFailedError("ses", stderrors.New("throttled")))
	assert.Equal(t, ExitUnavailable, code)
	require.Len(t, log.fields, 1)
	assert.Equal(t, 3, log.fields[0]["retries"])
	assert.Equal(t, "NOTIFICATION", log.fields[0]["errorCategory"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "INPUT", GetErrorCategory(ErrCodeSourceReadFailed))
	assert.Equal(t, "REPORT", GetErrorCategory(ErrCodeInvalidLayout))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationFailed))
	assert.Equal(t, "CONFIG", GetErrorCategory(ErrCodeConfigInvalid))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))

	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeSourceReadFailed))
}
