// internal/stages/ingest/normalize-records/models.go
package normalizerecords

import (
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

type Input struct {
	Tables []models.Table
}

type Output struct {
	Dataset *models.Dataset
	Dropped int
}

type ServiceDependencies struct {
	Logger logger.Logger
}
