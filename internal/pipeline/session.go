// internal/pipeline/session.go
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"interview-reports/internal/common/metrics"
	"interview-reports/internal/models"
	buildreport "interview-reports/internal/stages/reporting/build-report"
	deliverreport "interview-reports/internal/stages/reporting/deliver-report"
	writeworkbook "interview-reports/internal/stages/reporting/write-workbook"
	aggregatecandidates "interview-reports/internal/stages/scoring/aggregate-candidates"
)

// Session is one loaded batch. Its record set is never mutated, so report
// requests may run concurrently.
type Session struct {
	id       string
	key      string
	cached   bool
	pipeline *Pipeline

	records    *models.RecordSet
	aggregator *aggregatecandidates.Aggregator
	summaries  []models.CandidateSummary
	cohort     models.CohortStatistics
	anomalies  []models.ReviewerCountAnomaly
	mismatches []models.Mismatch
}

// Document is a finished report file.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
	Sheets      []string
}

// Save writes the document into dir and returns its path.
func (d *Document) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, d.FileName)
	if err := os.WriteFile(path, d.Content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", d.FileName, err)
	}
	return path, nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) Key() string { return s.key }
func (s *Session) Cached() bool { return s.cached }
func (s *Session) Records() *models.RecordSet { return s.records }

// Candidates lists candidate identities in first-seen order.
func (s *Session) Candidates() []string { return s.records.Candidates() }

// HasColumn reports whether any loaded workbook carried the column.
func (s *Session) HasColumn(column string) bool { return s.records.HasColumn(column) }

// Summaries returns one summary per candidate, sorted by name.
func (s *Session) Summaries() []models.CandidateSummary { return s.summaries }

func (s *Session) Summary(candidate string) (*models.CandidateSummary, error) {
	return s.aggregator.Summary(candidate)
}

func (s *Session) Cohort() models.CohortStatistics { return s.cohort }

func (s *Session) Anomalies() []models.ReviewerCountAnomaly { return s.anomalies }

func (s *Session) Mismatches() []models.Mismatch { return s.mismatches }

// CandidatePlan lays out one candidate's report without rendering it.
func (s *Session) CandidatePlan(ctx context.Context, candidate string, variant models.Variant) (*models.ReportPlan, error) {
	p := s.pipeline
	var plan *models.ReportPlan
	err := p.stage(ctx, buildreport.StageName, func(ctx context.Context) error {
		var err error
		plan, err = p.build.BuildCandidate(ctx, s.records, s.aggregator, variant, candidate)
		return err
	})
	return plan, err
}

// CandidateReport renders one candidate's report workbook.
func (s *Session) CandidateReport(ctx context.Context, candidate string, variant models.Variant) (*Document, error) {
	plan, err := s.CandidatePlan(ctx, candidate, variant)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, plan, writeworkbook.CandidateFileName(candidate), string(variant), string(models.ScopeCandidate))
}

// CohortReport renders the summary sheet plus one sheet per candidate.
func (s *Session) CohortReport(ctx context.Context, variant models.Variant) (*Document, error) {
	p := s.pipeline
	var plan *models.ReportPlan
	err := p.stage(ctx, buildreport.StageName, func(ctx context.Context) error {
		var err error
		plan, err = p.build.BuildCohort(ctx, s.records, s.aggregator, variant)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.render(ctx, plan, writeworkbook.CohortFileName, string(variant), string(models.ScopeCohort))
}

// ExportCombined renders the filtered records as one flat sheet with the
// derived category scores and computed reviewer result appended.
func (s *Session) ExportCombined(ctx context.Context, filter models.ExportFilter) (*Document, error) {
	plan := s.pipeline.build.BuildCombined(s.records, s.pipeline.config.Report.CombinedSheet, filter)
	return s.render(ctx, plan, writeworkbook.CombinedFileName, "combined", "export")
}

// Deliver mails a document. It is a no-op when delivery is disabled.
func (s *Session) Deliver(ctx context.Context, doc *Document, to string) (*deliverreport.Output, error) {
	p := s.pipeline
	var out *deliverreport.Output
	err := p.stage(ctx, deliverreport.StageName, func(ctx context.Context) error {
		var err error
		out, err = p.deliver.Execute(ctx, &deliverreport.Input{
			To:      to,
			Subject: fmt.Sprintf("Interview report: %s", doc.FileName),
			Body:    "The requested interview evaluation report is attached.",
			Attachment: deliverreport.Attachment{
				FileName:    doc.FileName,
				ContentType: doc.ContentType,
				Content:     doc.Content,
			},
		})
		return err
	})
	return out, err
}

func (s *Session) render(ctx context.Context, plan *models.ReportPlan, fileName, layout, scope string) (*Document, error) {
	p := s.pipeline
	var out *writeworkbook.Output
	err := p.stage(ctx, writeworkbook.StageName, func(ctx context.Context) error {
		var err error
		out, err = p.write.Execute(ctx, &writeworkbook.Input{Plan: plan})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentsGenerated.WithLabelValues(layout, scope).Inc()
	p.logger.Info("document generated", map[string]interface{}{
		"sessionId": s.id,
		"file":      fileName,
		"sheets":    len(out.Sheets),
		"bytes":     len(out.Content),
	})
	return &Document{
		FileName:    fileName,
		ContentType: out.ContentType,
		Content:     out.Content,
		Sheets:      out.Sheets,
	}, nil
}
