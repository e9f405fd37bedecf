package buildreport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
	aggregatecandidates "interview-reports/internal/stages/scoring/aggregate-candidates"
)

var categories = []models.CategoryDefinition{
	{Name: "Project", MaxPoints: 30},
	{Name: "SW Architect", MaxPoints: 50},
	{Name: "Communication", MaxPoints: 20},
}

func rec(candidate string, total float64, comment string) models.EvaluationRecord {
	result := models.ResultFail
	if total >= 70 {
		result = models.ResultPass
	}
	return models.EvaluationRecord{
		Candidate:      candidate,
		TotalScore:     total,
		HasTotal:       true,
		ComputedResult: result,
		CategoryScores: map[string]float64{"Project": total * 0.3, "SW Architect": total * 0.5, "Communication": total * 0.2},
		Comment:        comment,
		HasComment:     comment != "",
	}
}

func fixture(recs ...models.EvaluationRecord) (*models.RecordSet, *aggregatecandidates.Aggregator) {
	rs := &models.RecordSet{
		Columns:    []string{"성명", "총점", "총평"},
		Categories: categories,
		Records:    recs,
	}
	return rs, aggregatecandidates.NewAggregator(rs, aggregatecandidates.DefaultConfig())
}

func newTestService(t *testing.T) *Service {
	return NewService(ServiceDependencies{Logger: logger.NewTestLogger(t)}, DefaultConfig())
}

func value(t *testing.T, sheet models.SheetPlan, cell string) interface{} {
	t.Helper()
	v, ok := sheet.Value(cell)
	require.True(t, ok, "cell %s not assigned", cell)
	return v
}

func TestBuildCandidate_Detailed(t *testing.T) {
	svc := newTestService(t)
	rs, agg := fixture(
		rec("Kim", 72, "clear structure"),
		rec("Kim", 68, ""),
		rec("Kim", 90, "excellent"),
		rec("Lee", 80, "fine"),
	)

	plan, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantDetailed, "Kim")
	require.NoError(t, err)
	require.Len(t, plan.Sheets, 1)
	assert.Equal(t, models.ScopeCandidate, plan.Scope)

	sheet := plan.Sheets[0]
	assert.Equal(t, "Kim report", sheet.Name)
	assert.Equal(t, "Kim", value(t, sheet, "B1"))
	assert.Equal(t, "Fail", value(t, sheet, "B2"))
	assert.Equal(t, "Score analysis", value(t, sheet, "A4"))

	assert.Equal(t, "Category", value(t, sheet, "A5"))
	assert.Equal(t, "Project", value(t, sheet, "B5"))
	assert.Equal(t, "Total", value(t, sheet, "E5"))
	assert.Equal(t, "Candidate", value(t, sheet, "A6"))
	assert.Equal(t, "Overall average", value(t, sheet, "A7"))
	assert.Equal(t, "Passer average", value(t, sheet, "A8"))
	assert.InDelta(t, 76.6667, value(t, sheet, "E6").(float64), 0.0001)
	assert.InDelta(t, 77.5, value(t, sheet, "E7").(float64), 1e-9)
	assert.InDelta(t, 80.6667, value(t, sheet, "E8").(float64), 0.0001)

	region, ok := sheet.Region("comparison")
	require.True(t, ok)
	assert.Equal(t, models.Region{Name: "comparison", From: "A5", To: "E8"}, region)

	assert.Equal(t, "Reviewer 1 (Pass)", value(t, sheet, "A12"))
	assert.Equal(t, "clear structure", value(t, sheet, "B12"))
	assert.Equal(t, "Reviewer 2 (Fail)", value(t, sheet, "A13"))
	assert.Equal(t, "No comment", value(t, sheet, "B13"))
	assert.Equal(t, "Reviewer 3 (Pass)", value(t, sheet, "A14"))

	region, ok = sheet.Region("comments")
	require.True(t, ok)
	assert.Equal(t, "A11", region.From)
	assert.Equal(t, "B14", region.To)
	assert.Equal(t, 80.0, sheet.ColumnWidths["B"])
}

func TestBuildCandidate_SummaryHasNoComparison(t *testing.T) {
	svc := newTestService(t)
	rs, agg := fixture(rec("Kim", 72, "ok"))

	plan, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantSummary, "Kim")
	require.NoError(t, err)

	sheet := plan.Sheets[0]
	_, ok := sheet.Region("comparison")
	assert.False(t, ok)
	assert.Equal(t, "Pass", value(t, sheet, "B2"))
	assert.Equal(t, "Reviewer 1 (Pass)", value(t, sheet, "A6"))
	assert.Equal(t, "ok", value(t, sheet, "B6"))
}

func TestBuildCandidate_SubmissionFormKeepsFirstThreeComments(t *testing.T) {
	svc := newTestService(t)
	var recs []models.EvaluationRecord
	for i := 1; i <= 5; i++ {
		recs = append(recs, rec("Kim", 75, fmt.Sprintf("comment %d", i)))
	}
	rs, agg := fixture(recs...)

	plan, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantSubmissionForm, "Kim")
	require.NoError(t, err)
	sheet := plan.Sheets[0]

	assert.Equal(t, "Kim", value(t, sheet, "B3"))
	assert.Equal(t, "Pass", value(t, sheet, "B4"))

	assert.Equal(t, "Project (30)", value(t, sheet, "A8"))
	assert.Equal(t, "SW Architect (50)", value(t, sheet, "A9"))
	assert.Equal(t, "Communication (20)", value(t, sheet, "A10"))
	assert.Equal(t, "Total (100)", value(t, sheet, "A11"))
	assert.InDelta(t, 75.0, value(t, sheet, "D11").(float64), 1e-9)
	region, _ := sheet.Region("score_table")
	assert.Equal(t, models.Region{Name: "score_table", From: "A7", To: "D11"}, region)

	assert.Equal(t, "comment 1", value(t, sheet, "B14"))
	assert.Equal(t, "comment 2", value(t, sheet, "B15"))
	assert.Equal(t, "comment 3", value(t, sheet, "B16"))
	for _, c := range sheet.Cells {
		assert.NotEqual(t, "comment 4", c.Value)
		assert.NotEqual(t, "comment 5", c.Value)
	}
	region, _ = sheet.Region("comment_slots")
	assert.Equal(t, "B16", region.To)
}

func TestBuildCandidate_SubmissionFormPadsMissingSlots(t *testing.T) {
	svc := newTestService(t)
	rs, agg := fixture(rec("Kim", 75, ""))

	plan, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantSubmissionForm, "Kim")
	require.NoError(t, err)
	sheet := plan.Sheets[0]

	assert.Equal(t, "No comment", value(t, sheet, "B14"))
	assert.Equal(t, "N/A", value(t, sheet, "B15"))
	assert.Equal(t, "N/A", value(t, sheet, "B16"))
	assert.Equal(t, "Reviewer 3", value(t, sheet, "A16"))
}

func TestBuildCandidate_SubmissionFormMovesSlotsBelowLongScoreTable(t *testing.T) {
	svc := newTestService(t)
	six := []models.CategoryDefinition{
		{Name: "Project", MaxPoints: 20},
		{Name: "Design", MaxPoints: 20},
		{Name: "Coding", MaxPoints: 20},
		{Name: "Testing", MaxPoints: 15},
		{Name: "Operations", MaxPoints: 15},
		{Name: "Communication", MaxPoints: 10},
	}
	scores := map[string]float64{"Project": 15, "Design": 14, "Coding": 16, "Testing": 10, "Operations": 9, "Communication": 8}
	rs := &models.RecordSet{
		Columns:    []string{"성명", "총점", "총평"},
		Categories: six,
		Records: []models.EvaluationRecord{
			{Candidate: "Kim", TotalScore: 72, HasTotal: true, ComputedResult: models.ResultPass, CategoryScores: scores, Comment: "first", HasComment: true},
			{Candidate: "Kim", TotalScore: 72, HasTotal: true, ComputedResult: models.ResultPass, CategoryScores: scores, Comment: "second", HasComment: true},
		},
	}
	agg := aggregatecandidates.NewAggregator(rs, aggregatecandidates.DefaultConfig())

	plan, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantSubmissionForm, "Kim")
	require.NoError(t, err)
	sheet := plan.Sheets[0]

	seen := map[string]int{}
	for _, c := range sheet.Cells {
		seen[c.Cell]++
	}
	for cell, n := range seen {
		assert.Equal(t, 1, n, "cell %s assigned %d times", cell, n)
	}

	table, _ := sheet.Region("score_table")
	assert.Equal(t, models.Region{Name: "score_table", From: "A7", To: "D14"}, table)
	assert.Equal(t, "Communication (10)", value(t, sheet, "A13"))
	assert.Equal(t, "Total (100)", value(t, sheet, "A14"))

	assert.Equal(t, "Reviewer comments", value(t, sheet, "A16"))
	assert.Equal(t, "first", value(t, sheet, "B17"))
	assert.Equal(t, "second", value(t, sheet, "B18"))
	assert.Equal(t, "N/A", value(t, sheet, "B19"))
	slots, _ := sheet.Region("comment_slots")
	assert.Equal(t, models.Region{Name: "comment_slots", From: "A17", To: "B19"}, slots)
}

func TestBuildCandidate_NoPassersUsesZeroPlaceholder(t *testing.T) {
	svc := newTestService(t)
	rs, agg := fixture(rec("Kim", 50, ""), rec("Lee", 40, ""))

	plan, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantDetailed, "Kim")
	require.NoError(t, err)
	sheet := plan.Sheets[0]
	for _, cell := range []string{"B8", "C8", "D8", "E8"} {
		assert.Equal(t, 0.0, value(t, sheet, cell), cell)
	}
}

func TestBuildCandidate_NoTotalColumn(t *testing.T) {
	svc := newTestService(t)
	rs := &models.RecordSet{
		Columns:    []string{"성명"},
		Categories: categories,
		Records:    []models.EvaluationRecord{{Candidate: "Kim", ComputedResult: models.ResultNotApplicable, CategoryScores: map[string]float64{}}},
	}
	agg := aggregatecandidates.NewAggregator(rs, aggregatecandidates.DefaultConfig())

	plan, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantDetailed, "Kim")
	require.NoError(t, err)
	sheet := plan.Sheets[0]
	assert.Equal(t, "Fail", value(t, sheet, "B2"))
	assert.Equal(t, "N/A", value(t, sheet, "E6"))
	assert.Equal(t, "Reviewer 1 (Fail)", value(t, sheet, "A12"))
}

func TestBuildCandidate_UnknownCandidate(t *testing.T) {
	svc := newTestService(t)
	rs, agg := fixture(rec("Kim", 72, ""))

	_, err := svc.BuildCandidate(context.Background(), rs, agg, models.VariantDetailed, "Nobody")
	var nf *apperrors.CandidateNotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestBuildCohort(t *testing.T) {
	svc := newTestService(t)
	rs, agg := fixture(
		rec("Park", 80, ""),
		rec("Kim", 72, ""),
		rec("Park", 60, ""),
	)

	out, err := svc.Execute(context.Background(), &Input{
		RecordSet: rs, Aggregator: agg, Variant: models.VariantSummary, Scope: models.ScopeCohort,
	})
	require.NoError(t, err)
	plan := out.Plan

	require.Len(t, plan.Sheets, 3)
	summary := plan.Sheets[0]
	assert.Equal(t, "Summary", summary.Name)
	assert.Equal(t, "Name", value(t, summary, "A1"))
	assert.Equal(t, "Final result", value(t, summary, "B1"))
	assert.Equal(t, "Total", value(t, summary, "F1"))
	assert.Equal(t, "Park", value(t, summary, "A2"), "first-seen order")
	assert.Equal(t, "Fail", value(t, summary, "B2"))
	assert.InDelta(t, 70.0, value(t, summary, "F2").(float64), 1e-9)
	assert.Equal(t, "Kim", value(t, summary, "A3"))
	assert.Equal(t, "Pass", value(t, summary, "B3"))

	assert.Equal(t, "Park report", plan.Sheets[1].Name)
	assert.Equal(t, "Kim report", plan.Sheets[2].Name)
}

func TestExecute_Rejects(t *testing.T) {
	svc := newTestService(t)
	rs, agg := fixture(rec("Kim", 72, ""))

	_, err := svc.Execute(context.Background(), &Input{RecordSet: rs, Aggregator: agg, Variant: "poster", Scope: models.ScopeCandidate, Candidate: "Kim"})
	assert.Equal(t, apperrors.ErrCodeInvalidLayout, apperrors.Normalize(err).Code)

	_, err = svc.Execute(context.Background(), &Input{RecordSet: rs, Aggregator: agg, Variant: models.VariantDetailed, Scope: "team"})
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "김민수 report", SheetName("김민수", "report"))
	assert.Equal(t, "a_b_c report", SheetName("a/b:c", "report"))
	assert.Len(t, []rune(SheetName("A very long candidate name that overflows", "report")), 31)

	names := uniqueSheetNames([]string{"A very long candidate name that overflows one", "A very long candidate name that overflows two", "Summary"}, "", "Summary")
	assert.Equal(t, "A very long candidate name that", names[0])
	assert.Equal(t, "A very long candidate name (2)", names[1])
	assert.Equal(t, "Summary (2)", names[2])
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Reviewer 2 (Fail)", ReviewerLabel(2, models.ResultNotApplicable))
	assert.Equal(t, "Project (30)", PointsLabel("Project", 30))
	assert.Equal(t, "Bonus (2.5)", PointsLabel("Bonus", 2.5))
	assert.Equal(t, "Bonus", PointsLabel("Bonus", 0))
	assert.Equal(t, "No comment", CommentText(models.EvaluationRecord{Comment: "  ", HasComment: false}))
}
