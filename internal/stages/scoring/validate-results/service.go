// internal/stages/scoring/validate-results/service.go
package validateresults

import (
	"context"

	"interview-reports/internal/common/logger"
	"interview-reports/internal/common/metrics"
	"interview-reports/internal/models"
)

const (
	StageName = "validate-results"
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

// Execute flags records whose declared result disagrees with the computed
// one. Records are never dropped and declared values are never rewritten.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := input.RecordSet
	rs := &models.RecordSet{
		Columns:    src.Columns,
		Categories: src.Categories,
		Records:    make([]models.EvaluationRecord, len(src.Records)),
	}
	copy(rs.Records, src.Records)

	declared := src.HasColumn(s.config.DeclaredColumn)
	if !declared {
		s.logger.Debug("declared result column absent, nothing to validate", map[string]interface{}{
			"column": s.config.DeclaredColumn,
		})
	}
	for i := range rs.Records {
		rec := &rs.Records[i]
		rec.Mismatch = declared && rec.HasDeclared && IsMismatch(rec.DeclaredResult, rec.ComputedResult)
	}
	out := &Output{RecordSet: rs, Mismatches: Findings(rs)}

	metrics.Mismatches.Add(float64(len(out.Mismatches)))
	if len(out.Mismatches) > 0 {
		s.logger.Warn("declared results disagree with computed results", map[string]interface{}{
			"mismatches": len(out.Mismatches),
		})
	}
	return out, nil
}

// IsMismatch compares a declared value with a computed result, ignoring case
// and surrounding whitespace.
func IsMismatch(declared string, computed models.Result) bool {
	return models.NormalizeResult(declared) != computed.Normalized()
}

// Findings lists the flagged records of a validated set in record order.
func Findings(rs *models.RecordSet) []models.Mismatch {
	var out []models.Mismatch
	for _, rec := range rs.Records {
		if !rec.Mismatch {
			continue
		}
		out = append(out, models.Mismatch{
			Candidate: rec.Candidate,
			Reviewer:  rec.Reviewer,
			Source:    rec.Source,
			Line:      rec.Line,
			Total:     rec.TotalScore,
			HasTotal:  rec.HasTotal,
			Declared:  rec.DeclaredResult,
			Computed:  rec.ComputedResult,
		})
	}
	return out
}
