// internal/stages/scoring/aggregate-candidates/service.go
package aggregatecandidates

import (
	"context"

	"interview-reports/internal/common/logger"
	"interview-reports/internal/common/metrics"
)

const (
	StageName = "aggregate-candidates"
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

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg := NewAggregator(input.RecordSet, s.config)
	out := &Output{
		Summaries: agg.Summaries(),
		Cohort:    agg.CohortStatistics(),
		Anomalies: agg.ReviewerCountAnomalies(),
	}

	metrics.ReviewerAnomalies.Add(float64(len(out.Anomalies)))
	for _, a := range out.Anomalies {
		s.logger.Warn("unexpected reviewer count", map[string]interface{}{
			"candidate": a.Candidate,
			"count":     a.Count,
			"expected":  a.Expected,
		})
	}
	s.logger.Info("candidates aggregated", map[string]interface{}{
		"candidates": len(out.Summaries),
		"passers":    out.Cohort.PasserCount,
		"anomalies":  len(out.Anomalies),
	})
	return out, nil
}
