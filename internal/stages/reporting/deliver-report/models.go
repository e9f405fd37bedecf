// internal/stages/reporting/deliver-report/models.go
package deliverreport

import (
	"time"

	awsclient "interview-reports/internal/common/aws"
	"interview-reports/internal/common/logger"
)

type Input struct {
	To         string     `json:"to"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	Attachment Attachment `json:"attachment"`
}

type Attachment struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}

type Output struct {
	Delivered bool      `json:"delivered"`
	MessageID string    `json:"messageId,omitempty"`
	SentAt    time.Time `json:"sentAt,omitempty"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	SES    awsclient.SESAPI
}
