// internal/stages/scoring/score-evaluations/models.go
package scoreevaluations

import (
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

type Input struct {
	Dataset *models.Dataset
}

type Output struct {
	RecordSet *models.RecordSet
}

type ServiceDependencies struct {
	Logger logger.Logger
}
