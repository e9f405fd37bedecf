// internal/stages/reporting/build-report/layout.go
package buildreport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"interview-reports/internal/models"
	"interview-reports/pkg/registry"
)

// sheetWriter accumulates cell assignments for one sheet.
type sheetWriter struct {
	plan models.SheetPlan
}

func newSheetWriter(name string) *sheetWriter {
	return &sheetWriter{plan: models.SheetPlan{Name: name}}
}

func (w *sheetWriter) set(col, row int, value interface{}) {
	w.plan.Cells = append(w.plan.Cells, models.CellValue{Cell: cellName(col, row), Value: value})
}

func (w *sheetWriter) region(name string, fromCol, fromRow, toCol, toRow int) {
	w.plan.Regions = append(w.plan.Regions, models.Region{
		Name: name,
		From: cellName(fromCol, fromRow),
		To:   cellName(toCol, toRow),
	})
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// candidateView is everything a template can draw for one candidate.
type candidateView struct {
	summary *models.CandidateSummary
	records []models.EvaluationRecord
	cohort  models.CohortStatistics
}

// renderTemplate applies a template's bindings and blocks to one candidate.
func (s *Service) renderTemplate(tpl *registry.Template, sheet string, categories []models.CategoryDefinition, v candidateView) (models.SheetPlan, error) {
	w := newSheetWriter(sheet)

	for _, b := range tpl.Fields {
		col, row, err := excelize.CellNameToCoordinates(b.Cell)
		if err != nil {
			return models.SheetPlan{}, fmt.Errorf("binding %q: %w", b.Cell, err)
		}
		switch {
		case b.Text != "":
			w.set(col, row, b.Text)
		case b.Field == registry.FieldCandidate:
			w.set(col, row, v.summary.Candidate)
		case b.Field == registry.FieldFinalResult:
			w.set(col, row, string(v.summary.FinalResult))
		default:
			return models.SheetPlan{}, fmt.Errorf("binding %q: unknown field %q", b.Cell, b.Field)
		}
	}

	last := 0
	for _, b := range tpl.Blocks {
		col, row, err := excelize.CellNameToCoordinates(b.Anchor)
		if err != nil {
			return models.SheetPlan{}, fmt.Errorf("block %s: %w", b.Kind, err)
		}
		// Blocks grow with the data, so a block never starts above the end
		// of the previous one plus a blank row and its title.
		if last > 0 {
			start := last + 2
			if b.Title != "" {
				start++
			}
			row = max(row, start)
		}
		if b.Title != "" && row > 1 {
			w.set(col, row-1, b.Title)
		}

		switch b.Kind {
		case registry.BlockComparison:
			last = writeComparison(w, col, row, categories, v)
		case registry.BlockComments:
			last = writeComments(w, col, row, v.records)
		case registry.BlockScoreTable:
			last = writeScoreTable(w, col, row, categories, s.config.TotalMaxPoints, v)
		case registry.BlockCommentSlots:
			slots := b.Slots
			if slots <= 0 {
				slots = s.config.CommentSlots
			}
			last = writeCommentSlots(w, col, row, slots, v.records)
		default:
			return models.SheetPlan{}, fmt.Errorf("unknown block kind %q", b.Kind)
		}
	}

	if len(tpl.ColumnWidths) > 0 {
		w.plan.ColumnWidths = make(map[string]float64, len(tpl.ColumnWidths))
		for k, width := range tpl.ColumnWidths {
			w.plan.ColumnWidths[k] = width
		}
	}
	return w.plan, nil
}

// writeComparison lays out a header row of categories plus Total, followed
// by the candidate, overall and passer means. It returns the last row used.
func writeComparison(w *sheetWriter, col, row int, categories []models.CategoryDefinition, v candidateView) int {
	w.set(col, row, LabelCategory)
	for i, cat := range categories {
		w.set(col+1+i, row, cat.Name)
	}
	totalCol := col + 1 + len(categories)
	w.set(totalCol, row, LabelTotal)

	lines := []struct {
		label string
		line  models.ScoreLine
	}{
		{LabelCandidate, v.summary.Means},
		{LabelOverall, v.cohort.Overall},
		{LabelPassers, v.cohort.Passers},
	}
	for i, l := range lines {
		r := row + 1 + i
		w.set(col, r, l.label)
		for j, cat := range categories {
			w.set(col+1+j, r, l.line.Category(cat.Name))
		}
		w.set(totalCol, r, totalValue(v.summary.HasTotal, l.line.Total))
	}
	w.region(registry.BlockComparison, col, row, totalCol, row+len(lines))
	return row + len(lines)
}

// writeComments writes one labelled row per reviewer in record order.
func writeComments(w *sheetWriter, col, row int, records []models.EvaluationRecord) int {
	w.set(col, row, LabelReviewer)
	w.set(col+1, row, LabelComment)
	for i, rec := range records {
		w.set(col, row+1+i, ReviewerLabel(i+1, rec.ComputedResult))
		w.set(col+1, row+1+i, CommentText(rec))
	}
	w.region(registry.BlockComments, col, row, col+1, row+len(records))
	return row + len(records)
}

// writeScoreTable writes the fixed form table: one row per category and a
// Total row, each with cohort, passer and candidate means.
func writeScoreTable(w *sheetWriter, col, row int, categories []models.CategoryDefinition, totalMax float64, v candidateView) int {
	for i, h := range []string{LabelCategory, LabelOverall, LabelPassers, LabelCandidate} {
		w.set(col+i, row, h)
	}
	r := row + 1
	for _, cat := range categories {
		w.set(col, r, PointsLabel(cat.Name, cat.MaxPoints))
		w.set(col+1, r, v.cohort.Overall.Category(cat.Name))
		w.set(col+2, r, v.cohort.Passers.Category(cat.Name))
		w.set(col+3, r, v.summary.Means.Category(cat.Name))
		r++
	}
	w.set(col, r, PointsLabel(LabelTotal, totalMax))
	w.set(col+1, r, totalValue(v.summary.HasTotal, v.cohort.Overall.Total))
	w.set(col+2, r, totalValue(v.summary.HasTotal, v.cohort.Passers.Total))
	w.set(col+3, r, totalValue(v.summary.HasTotal, v.summary.Means.Total))
	w.region(registry.BlockScoreTable, col, row, col+3, r)
	return r
}

// writeCommentSlots fills exactly n slots from the first n records. Unused
// slots show a placeholder and extra records are left out.
func writeCommentSlots(w *sheetWriter, col, row, n int, records []models.EvaluationRecord) int {
	for i := 0; i < n; i++ {
		w.set(col, row+i, LabelReviewer+" "+strconv.Itoa(i+1))
		if i < len(records) {
			w.set(col+1, row+i, CommentText(records[i]))
		} else {
			w.set(col+1, row+i, EmptySlot)
		}
	}
	w.region(registry.BlockCommentSlots, col, row, col+1, row+n-1)
	return row + n - 1
}

// ReviewerLabel renders "Reviewer N (Pass)" or "Reviewer N (Fail)". Any
// result other than Pass is shown as Fail.
func ReviewerLabel(n int, result models.Result) string {
	label := models.ResultFail
	if result == models.ResultPass {
		label = models.ResultPass
	}
	return fmt.Sprintf("%s %d (%s)", LabelReviewer, n, label)
}

// CommentText returns the reviewer comment or a placeholder.
func CommentText(rec models.EvaluationRecord) string {
	if !rec.HasComment {
		return NoComment
	}
	return strings.TrimSpace(rec.Comment)
}

// PointsLabel annotates a category with its maximum points, e.g. "Project (30)".
func PointsLabel(name string, maxPoints float64) string {
	if maxPoints <= 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strconv.FormatFloat(maxPoints, 'f', -1, 64))
}

func totalValue(hasTotal bool, v float64) interface{} {
	if !hasTotal {
		return NotApplicableNumber
	}
	return v
}
