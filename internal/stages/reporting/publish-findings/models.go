// internal/stages/reporting/publish-findings/models.go
package publishfindings

import (
	awsclient "interview-reports/internal/common/aws"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

type Input struct {
	SessionID  string
	Anomalies  []models.ReviewerCountAnomaly
	Mismatches []models.Mismatch
}

type Output struct {
	Published bool
	MessageID string
}

type ServiceDependencies struct {
	Logger logger.Logger
	SNS    awsclient.SNSAPI
}
