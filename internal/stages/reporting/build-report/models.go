// internal/stages/reporting/build-report/models.go
package buildreport

import (
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
	aggregatecandidates "interview-reports/internal/stages/scoring/aggregate-candidates"
	"interview-reports/pkg/registry"
)

type Input struct {
	RecordSet  *models.RecordSet
	Aggregator *aggregatecandidates.Aggregator
	Variant    models.Variant
	Scope      models.ReportScope
	Candidate  string // required for ScopeCandidate
}

type Output struct {
	Plan *models.ReportPlan
}

type ServiceDependencies struct {
	Logger   logger.Logger
	Registry *registry.LayoutRegistry
}

// Labels used in generated sheets.
const (
	LabelCategory       = "Category"
	LabelTotal          = "Total"
	LabelCandidate      = "Candidate"
	LabelOverall        = "Overall average"
	LabelPassers        = "Passer average"
	LabelReviewer       = "Reviewer"
	LabelComment        = "Comment"
	LabelName           = "Name"
	LabelFinalResult    = "Final result"
	NoComment           = "No comment"
	EmptySlot           = "N/A"
	NotApplicableNumber = "N/A"
)
