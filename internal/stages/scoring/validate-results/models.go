// internal/stages/scoring/validate-results/models.go
package validateresults

import (
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

type Input struct {
	RecordSet *models.RecordSet
}

// Output carries an annotated copy of the input set plus the findings.
type Output struct {
	RecordSet  *models.RecordSet
	Mismatches []models.Mismatch
}

type ServiceDependencies struct {
	Logger logger.Logger
}
