// internal/stages/reporting/deliver-report/service.go
package deliverreport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	awsclient "interview-reports/internal/common/aws"
	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
)

const (
	StageName = "deliver-report"

	lineLength = 76
)

type Service struct {
	config *Config
	ses    awsclient.SESAPI
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		ses:    deps.SES,
		logger: deps.Logger.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute mails one report document as an attachment. It is a no-op when
// delivery is disabled.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !s.config.Enabled || s.ses == nil {
		s.logger.Debug("email delivery disabled", nil)
		return &Output{Delivered: false}, nil
	}

	result, err := validateInput(input)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidInputError(result.Error())
	}

	raw, err := BuildMessage(s.config.FromEmail, input)
	if err != nil {
		return nil, apperrors.NewNotificationFailedError("ses", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.ses.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(s.config.FromEmail),
		Destinations: []string{input.To},
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		s.logger.Error("report delivery failed", map[string]interface{}{
			"to":    input.To,
			"error": err,
		})
		return nil, apperrors.NewNotificationFailedError("ses", err)
	}

	out := &Output{Delivered: true, SentAt: time.Now().UTC()}
	if resp != nil && resp.MessageId != nil {
		out.MessageID = *resp.MessageId
	}
	s.logger.Info("report delivered", map[string]interface{}{
		"to":        input.To,
		"file":      input.Attachment.FileName,
		"messageId": out.MessageID,
	})
	return out, nil
}

// BuildMessage renders a multipart/mixed message with a text body and one
// base64 attachment.
func BuildMessage(from string, input *Input) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", input.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", input.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"8bit"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(input.Body)); err != nil {
		return nil, err
	}

	contentType := input.Attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType(contentType, map[string]string{"name": input.Attachment.FileName})},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": input.Attachment.FileName})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(input.Attachment.Content)
	for len(encoded) > lineLength {
		if _, err := part.Write([]byte(encoded[:lineLength] + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[lineLength:]
	}
	if _, err := part.Write([]byte(encoded)); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
