// internal/stages/ingest/normalize-records/service.go
package normalizerecords

import (
	"context"
	"math"
	"strconv"
	"strings"

	"interview-reports/internal/common/logger"
	"interview-reports/internal/common/metrics"
	"interview-reports/internal/models"
)

const (
	StageName = "normalize-records"
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

// Execute concatenates tables in order into one dataset. Rows without an
// identity are dropped; score columns present in the schema become numbers.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := &models.Dataset{Columns: UnifyColumns(input.Tables)}

	var scoreCols []string
	for _, c := range s.config.ScoreColumns {
		if ds.HasColumn(c) {
			scoreCols = append(scoreCols, c)
		}
	}

	dropped := 0
	for _, table := range input.Tables {
		for _, raw := range table.Rows {
			identity := strings.TrimSpace(raw.Values[s.config.IdentityColumn])
			if identity == "" {
				dropped++
				continue
			}

			fields := make(map[string]string, len(ds.Columns))
			for _, c := range ds.Columns {
				fields[c] = raw.Values[c]
			}
			fields[s.config.IdentityColumn] = identity

			numbers := make(map[string]float64, len(scoreCols))
			for _, c := range scoreCols {
				numbers[c] = ParseScore(raw.Values[c])
			}

			ds.Rows = append(ds.Rows, models.Row{
				Source:   raw.Source,
				Line:     raw.Line,
				Identity: identity,
				Fields:   fields,
				Numbers:  numbers,
			})
		}
	}

	metrics.RowsDropped.Add(float64(dropped))
	s.logger.Info("records normalized", map[string]interface{}{
		"rows":    len(ds.Rows),
		"dropped": dropped,
		"columns": len(ds.Columns),
	})

	return &Output{Dataset: ds, Dropped: dropped}, nil
}

// UnifyColumns returns the union of all table headers in first-seen order.
func UnifyColumns(tables []models.Table) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	return cols
}

// ParseScore converts a raw cell to a number. Anything unparseable,
// including NaN and infinities, becomes 0.
func ParseScore(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
