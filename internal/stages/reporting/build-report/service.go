// internal/stages/reporting/build-report/service.go
package buildreport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
	aggregatecandidates "interview-reports/internal/stages/scoring/aggregate-candidates"
	"interview-reports/pkg/registry"
)

const (
	StageName = "build-report"

	maxSheetName = 31
)

type Service struct {
	config   *Config
	registry *registry.LayoutRegistry
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	reg := deps.Registry
	if reg == nil {
		reg = registry.Builtin()
	}
	return &Service{
		config:   config,
		registry: reg,
		logger:   deps.Logger.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	agg := input.Aggregator
	var (
		plan *models.ReportPlan
		err  error
	)
	switch input.Scope {
	case models.ScopeCandidate:
		plan, err = s.BuildCandidate(ctx, input.RecordSet, agg, input.Variant, input.Candidate)
	case models.ScopeCohort:
		plan, err = s.BuildCohort(ctx, input.RecordSet, agg, input.Variant)
	default:
		err = apperrors.NewInvalidInputError(fmt.Sprintf("unknown report scope %q", input.Scope))
	}
	if err != nil {
		return nil, err
	}
	return &Output{Plan: plan}, nil
}

// BuildCandidate plans a single-sheet report for one candidate.
func (s *Service) BuildCandidate(ctx context.Context, rs *models.RecordSet, agg *aggregatecandidates.Aggregator, variant models.Variant, candidate string) (*models.ReportPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tpl, err := s.registry.Template(variant)
	if err != nil {
		return nil, err
	}

	sheet, err := s.candidateSheet(tpl, rs, agg, agg.CohortStatistics(), candidate, SheetName(candidate, s.config.SheetSuffix))
	if err != nil {
		return nil, err
	}

	s.logger.Info("candidate report planned", map[string]interface{}{
		"candidate": candidate,
		"layout":    variant,
		"cells":     len(sheet.Cells),
	})
	return &models.ReportPlan{Variant: variant, Scope: models.ScopeCandidate, Sheets: []models.SheetPlan{sheet}}, nil
}

// BuildCohort plans the summary sheet followed by one sheet per candidate in
// first-seen order. Candidate sheets are built concurrently.
func (s *Service) BuildCohort(ctx context.Context, rs *models.RecordSet, agg *aggregatecandidates.Aggregator, variant models.Variant) (*models.ReportPlan, error) {
	tpl, err := s.registry.Template(variant)
	if err != nil {
		return nil, err
	}

	names := rs.Candidates()
	cohort := agg.CohortStatistics()
	sheetNames := uniqueSheetNames(names, s.config.SheetSuffix, s.config.SummarySheet)

	summary, err := s.summarySheet(rs, agg, names)
	if err != nil {
		return nil, err
	}

	sheets := make([]models.SheetPlan, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallelism)

	for i := range names {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			sheet, err := s.candidateSheet(tpl, rs, agg, cohort, names[i], sheetNames[i])
			if err != nil {
				return fmt.Errorf("candidate %q: %w", names[i], err)
			}
			sheets[i] = sheet
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("cohort report planned", map[string]interface{}{
		"candidates": len(names),
		"layout":     variant,
	})
	return &models.ReportPlan{
		Variant: variant,
		Scope:   models.ScopeCohort,
		Sheets:  append([]models.SheetPlan{summary}, sheets...),
	}, nil
}

func (s *Service) candidateSheet(tpl *registry.Template, rs *models.RecordSet, agg *aggregatecandidates.Aggregator, cohort models.CohortStatistics, candidate, sheet string) (models.SheetPlan, error) {
	summary, err := agg.Summary(candidate)
	if err != nil {
		return models.SheetPlan{}, err
	}
	return s.renderTemplate(tpl, sheet, rs.Categories, candidateView{
		summary: summary,
		records: rs.ForCandidate(candidate),
		cohort:  cohort,
	})
}

// summarySheet writes one row per candidate: name, final result, category
// means and total mean.
func (s *Service) summarySheet(rs *models.RecordSet, agg *aggregatecandidates.Aggregator, names []string) (models.SheetPlan, error) {
	w := newSheetWriter(s.config.SummarySheet)

	header := append([]string{LabelName, LabelFinalResult}, models.CategoryNames(rs.Categories)...)
	header = append(header, LabelTotal)
	for i, h := range header {
		w.set(1+i, 1, h)
	}

	for i, name := range names {
		summary, err := agg.Summary(name)
		if err != nil {
			return models.SheetPlan{}, err
		}
		row := 2 + i
		w.set(1, row, summary.Candidate)
		w.set(2, row, string(summary.FinalResult))
		for j, cat := range rs.Categories {
			w.set(3+j, row, summary.Means.Category(cat.Name))
		}
		w.set(len(header), row, totalValue(summary.HasTotal, summary.Means.Total))
	}

	w.region("summary", 1, 1, len(header), 1+len(names))
	w.plan.ColumnWidths = map[string]float64{"A": 15, "B": 15}
	return w.plan, nil
}

// SheetName derives a valid worksheet name for a candidate report.
func SheetName(candidate, suffix string) string {
	name := strings.TrimSpace(candidate + " " + suffix)
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "report"
	}
	return strings.TrimSpace(truncateRunes(name, maxSheetName))
}

// uniqueSheetNames resolves collisions left by truncation or sanitizing.
func uniqueSheetNames(candidates []string, suffix string, reserved ...string) []string {
	taken := make(map[string]bool, len(candidates)+len(reserved))
	for _, r := range reserved {
		taken[strings.ToLower(r)] = true
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		name := SheetName(c, suffix)
		base := name
		for n := 2; taken[strings.ToLower(name)]; n++ {
			tag := " (" + strconv.Itoa(n) + ")"
			name = strings.TrimSpace(truncateRunes(base, maxSheetName-utf8.RuneCountInString(tag))) + tag
		}
		taken[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
