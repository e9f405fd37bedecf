// internal/stages/reporting/publish-findings/service.go
package publishfindings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	awsclient "interview-reports/internal/common/aws"
	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
)

const (
	StageName = "publish-findings"

	Subject = "Interview evaluation findings"
)

type Service struct {
	config *Config
	sns    awsclient.SNSAPI
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		sns:    deps.SNS,
		logger: deps.Logger.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute publishes the batch findings when there are any. Findings are
// advisory, so callers log a failure here and carry on.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !s.config.Enabled || s.sns == nil {
		return &Output{}, nil
	}
	if len(input.Anomalies) == 0 && len(input.Mismatches) == 0 {
		s.logger.Debug("no findings to publish", map[string]interface{}{"sessionId": input.SessionID})
		return &Output{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.config.TopicARN),
		Subject:  aws.String(Subject),
		Message:  aws.String(FormatMessage(input)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"sessionId":  {DataType: aws.String("String"), StringValue: aws.String(input.SessionID)},
			"anomalies":  {DataType: aws.String("Number"), StringValue: aws.String(strconv.Itoa(len(input.Anomalies)))},
			"mismatches": {DataType: aws.String("Number"), StringValue: aws.String(strconv.Itoa(len(input.Mismatches)))},
		},
	})
	if err != nil {
		return nil, apperrors.NewNotificationFailedError("sns", err)
	}

	out := &Output{Published: true, MessageID: aws.ToString(resp.MessageId)}
	s.logger.Info("findings published", map[string]interface{}{
		"sessionId":  input.SessionID,
		"anomalies":  len(input.Anomalies),
		"mismatches": len(input.Mismatches),
		"messageId":  out.MessageID,
	})
	return out, nil
}

// FormatMessage renders the findings as plain text.
func FormatMessage(input *Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s\n", input.SessionID)

	if len(input.Anomalies) > 0 {
		fmt.Fprintf(&b, "\nReviewer count anomalies (%d):\n", len(input.Anomalies))
		for _, a := range input.Anomalies {
			fmt.Fprintf(&b, "- %s: %d evaluations, expected %d\n", a.Candidate, a.Count, a.Expected)
		}
	}
	if len(input.Mismatches) > 0 {
		fmt.Fprintf(&b, "\nResult mismatches (%d):\n", len(input.Mismatches))
		for _, m := range input.Mismatches {
			reviewer := m.Reviewer
			if reviewer == "" {
				reviewer = "unknown reviewer"
			}
			total := "N/A"
			if m.HasTotal {
				total = strconv.FormatFloat(m.Total, 'f', -1, 64)
			}
			fmt.Fprintf(&b, "- %s (%s, %s:%d): total %s, declared %q, computed %s\n",
				m.Candidate, reviewer, m.Source, m.Line, total, strings.TrimSpace(m.Declared), m.Computed)
		}
	}
	return b.String()
}
