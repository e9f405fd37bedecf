// internal/stages/scoring/aggregate-candidates/models.go
package aggregatecandidates

import (
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

type Input struct {
	RecordSet *models.RecordSet
}

type Output struct {
	Summaries []models.CandidateSummary
	Cohort    models.CohortStatistics
	Anomalies []models.ReviewerCountAnomaly
}

type ServiceDependencies struct {
	Logger logger.Logger
}
