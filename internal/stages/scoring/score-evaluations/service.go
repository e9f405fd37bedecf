// internal/stages/scoring/score-evaluations/service.go
package scoreevaluations

import (
	"context"
	"strings"

	"interview-reports/internal/common/logger"
	"interview-reports/internal/common/metrics"
	"interview-reports/internal/models"
)

const (
	StageName = "score-evaluations"
)

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute scores every row of the dataset. It does not modify the dataset.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := input.Dataset
	categories := s.presentColumns(ds)

	rs := &models.RecordSet{
		Columns:    append([]string(nil), ds.Columns...),
		Categories: s.config.Categories,
		Records:    make([]models.EvaluationRecord, 0, len(ds.Rows)),
	}
	for _, row := range ds.Rows {
		rs.Records = append(rs.Records, s.score(ds, row, categories))
	}

	passed := 0
	for _, r := range rs.Records {
		if r.ComputedResult == models.ResultPass {
			passed++
		}
	}

	metrics.RecordsNormalized.Add(float64(len(rs.Records)))
	s.logger.Info("evaluations scored", map[string]interface{}{
		"records":  len(rs.Records),
		"passed":   passed,
		"hasTotal": ds.HasColumn(s.config.TotalColumn),
	})

	return &Output{RecordSet: rs}, nil
}

// presentColumns maps each category to its configured columns that exist in
// the dataset schema. Absent columns contribute nothing.
func (s *Service) presentColumns(ds *models.Dataset) map[string][]string {
	out := make(map[string][]string, len(s.config.Categories))
	for _, cat := range s.config.Categories {
		for _, c := range cat.Columns {
			if ds.HasColumn(c) {
				out[cat.Name] = append(out[cat.Name], c)
			}
		}
	}
	return out
}

func (s *Service) score(ds *models.Dataset, row models.Row, categories map[string][]string) models.EvaluationRecord {
	rec := models.EvaluationRecord{
		Candidate:      row.Identity,
		Source:         row.Source,
		Line:           row.Line,
		Fields:         row.Fields,
		Numbers:        row.Numbers,
		CategoryScores: make(map[string]float64, len(s.config.Categories)),
	}

	for _, cat := range s.config.Categories {
		sum := 0.0
		for _, c := range categories[cat.Name] {
			sum += row.Numbers[c]
		}
		rec.CategoryScores[cat.Name] = sum
	}

	if ds.HasColumn(s.config.TotalColumn) {
		rec.HasTotal = true
		rec.TotalScore = row.Numbers[s.config.TotalColumn]
		rec.ComputedResult = ComputeResult(rec.TotalScore, s.config.PassThreshold)
	} else {
		rec.ComputedResult = models.ResultNotApplicable
	}

	if s.config.DeclaredColumn != "" && ds.HasColumn(s.config.DeclaredColumn) {
		rec.DeclaredResult = row.Fields[s.config.DeclaredColumn]
		rec.HasDeclared = IsDeclared(rec.DeclaredResult)
	}
	if s.config.CommentColumn != "" && ds.HasColumn(s.config.CommentColumn) {
		rec.Comment = row.Fields[s.config.CommentColumn]
		rec.HasComment = strings.TrimSpace(rec.Comment) != ""
	}
	if s.config.ReviewerColumn != "" && ds.HasColumn(s.config.ReviewerColumn) {
		rec.Reviewer = strings.TrimSpace(row.Fields[s.config.ReviewerColumn])
	}

	return rec
}

// ComputeResult is Pass iff total >= threshold.
func ComputeResult(total, threshold float64) models.Result {
	if total >= threshold {
		return models.ResultPass
	}
	return models.ResultFail
}

// IsDeclared reports whether a declared-result cell carries a value.
// Blank cells and the literal "nan" count as absent.
func IsDeclared(raw string) bool {
	n := models.NormalizeResult(raw)
	return n != "" && n != "nan"
}
