package deliverreport

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
)

type MockSES struct {
	mock.Mock
}

func (m *MockSES) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendRawEmailOutput), args.Error(1)
}

func createValidConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.FromEmail = "reports@example.com"
	return cfg
}

func createValidInput() *Input {
	return &Input{
		To:      "hr@example.com",
		Subject: "김민수 interview report",
		Body:    "Report attached.",
		Attachment: Attachment{
			FileName:    "김민수_interview_report.xlsx",
			ContentType: "application/vnd.ms-excel",
			Content:     bytes.Repeat([]byte("xlsx-bytes"), 20),
		},
	}
}

func TestExecute_SendsRawEmail(t *testing.T) {
	sesMock := new(MockSES)
	sesMock.On("SendRawEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendRawEmailInput) bool {
		return aws.ToString(in.Source) == "reports@example.com" &&
			len(in.Destinations) == 1 && in.Destinations[0] == "hr@example.com" &&
			in.RawMessage != nil && len(in.RawMessage.Data) > 0
	})).Return(&ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil)

	svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t), SES: sesMock}, createValidConfig())
	out, err := svc.Execute(context.Background(), createValidInput())
	require.NoError(t, err)

	assert.True(t, out.Delivered)
	assert.Equal(t, "msg-1", out.MessageID)
	assert.False(t, out.SentAt.IsZero())
	sesMock.AssertExpectations(t)
}

func TestExecute_Disabled(t *testing.T) {
	sesMock := new(MockSES)
	svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t), SES: sesMock}, DefaultConfig())

	out, err := svc.Execute(context.Background(), createValidInput())
	require.NoError(t, err)
	assert.False(t, out.Delivered)
	sesMock.AssertNotCalled(t, "SendRawEmail", mock.Anything, mock.Anything)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"bad recipient", func(in *Input) { in.To = "not-an-address" }},
		{"empty subject", func(in *Input) { in.Subject = "" }},
		{"wrong extension", func(in *Input) { in.Attachment.FileName = "report.pdf" }},
		{"empty attachment", func(in *Input) { in.Attachment.Content = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sesMock := new(MockSES)
			svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t), SES: sesMock}, createValidConfig())

			in := createValidInput()
			tt.mutate(in)
			_, err := svc.Execute(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code)
			sesMock.AssertNotCalled(t, "SendRawEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_SESFailure(t *testing.T) {
	sesMock := new(MockSES)
	sesMock.On("SendRawEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t), SES: sesMock}, createValidConfig())
	_, err := svc.Execute(context.Background(), createValidInput())

	se := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeNotificationFailed, se.Code)
	assert.True(t, se.Retryable)
}

func TestBuildMessage(t *testing.T) {
	in := createValidInput()
	raw, err := BuildMessage("reports@example.com", in)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", msg.Header.Get("To"))

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, in.Subject, subject)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	body, err := mr.NextPart()
	require.NoError(t, err)
	text, _ := io.ReadAll(body)
	assert.Equal(t, "Report attached.", string(text))

	att, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, in.Attachment.FileName, att.FileName())
	encoded, _ := io.ReadAll(att)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, in.Attachment.Content, decoded)

	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, createValidConfig().Validate())

	cfg := createValidConfig()
	cfg.FromEmail = ""
	assert.Error(t, cfg.Validate())
}
