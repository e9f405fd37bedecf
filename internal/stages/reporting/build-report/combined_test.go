package buildreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-reports/internal/models"
)

func combinedFixture() *models.RecordSet {
	mk := func(name string, total float64, result models.Result, mismatch bool) models.EvaluationRecord {
		return models.EvaluationRecord{
			Candidate:      name,
			Fields:         map[string]string{"성명": name, "총점": "raw", "총평": "note " + name, "Project": "source value"},
			Numbers:        map[string]float64{"총점": total},
			CategoryScores: map[string]float64{"Project": 20, "Communication": 10},
			TotalScore:     total,
			HasTotal:       true,
			ComputedResult: result,
			Mismatch:       mismatch,
		}
	}
	return &models.RecordSet{
		Columns: []string{"성명", "총점", "Project", "총평"},
		Categories: []models.CategoryDefinition{
			{Name: "Project"}, {Name: "Communication"},
		},
		Records: []models.EvaluationRecord{
			mk("Kim", 72, models.ResultPass, true),
			mk("Lee", 50, models.ResultFail, false),
			mk("Kim", 90, models.ResultPass, false),
		},
	}
}

func TestCombinedColumns_DerivedReplacesPassthrough(t *testing.T) {
	cols := CombinedColumns(combinedFixture())
	assert.Equal(t, []string{"성명", "총점", "총평", "Project", "Communication", "Reviewer_Result"}, cols)
	assert.NotContains(t, cols, "Result_Mismatch")
}

func TestBuildCombined(t *testing.T) {
	svc := newTestService(t)
	plan := svc.BuildCombined(combinedFixture(), "Combined", models.ExportFilter{})

	require.Len(t, plan.Sheets, 1)
	sheet := plan.Sheets[0]
	assert.Equal(t, "Combined", sheet.Name)
	assert.Equal(t, "Reviewer_Result", value(t, sheet, "F1"))
	assert.Equal(t, "Kim", value(t, sheet, "A2"))
	assert.Equal(t, 72.0, value(t, sheet, "B2"), "score columns export as numbers")
	assert.Equal(t, "note Kim", value(t, sheet, "C2"))
	assert.Equal(t, 20.0, value(t, sheet, "D2"))
	assert.Equal(t, "Pass", value(t, sheet, "F2"))
	assert.Equal(t, "Lee", value(t, sheet, "A3"))

	region, _ := sheet.Region("combined")
	assert.Equal(t, "F4", region.To)
}

func TestBuildCombined_Filters(t *testing.T) {
	svc := newTestService(t)
	rs := combinedFixture()

	plan := svc.BuildCombined(rs, "Combined", models.ExportFilter{Candidates: []string{"Kim"}})
	region, _ := plan.Sheets[0].Region("combined")
	assert.Equal(t, "F3", region.To)

	plan = svc.BuildCombined(rs, "Combined", models.ExportFilter{Result: models.ResultFail})
	sheet := plan.Sheets[0]
	assert.Equal(t, "Lee", value(t, sheet, "A2"))
	_, ok := sheet.Value("A3")
	assert.False(t, ok)

	plan = svc.BuildCombined(rs, "Combined", models.ExportFilter{Candidates: []string{"Lee"}, Result: models.ResultPass})
	region, _ = plan.Sheets[0].Region("combined")
	assert.Equal(t, "F1", region.To, "header only")
}
