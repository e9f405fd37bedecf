// internal/stages/reporting/write-workbook/models.go
package writeworkbook

import (
	"strings"

	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

// ContentType is advertised for every generated document.
const ContentType = "application/vnd.ms-excel"

const (
	CohortFileName   = "interview_overall_report.xlsx"
	CombinedFileName = "interview_results_combined.xlsx"
)

// CandidateFileName is the download name of a single-candidate report.
func CandidateFileName(candidate string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(candidate))
	return name + "_interview_report.xlsx"
}

type Input struct {
	Plan *models.ReportPlan
}

// Output is a finished document.
type Output struct {
	Content     []byte
	ContentType string
	Sheets      []string
}

type ServiceDependencies struct {
	Logger logger.Logger
}
