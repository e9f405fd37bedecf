// pkg/registry/builtin.go
package registry

import "interview-reports/internal/models"

// Builtin returns the default templates for every layout variant.
func Builtin() *LayoutRegistry {
	return &LayoutRegistry{
		Version: "1",
		Templates: []Template{
			{
				Variant:     models.VariantDetailed,
				Description: "Header, score comparison against the cohort, one comment row per reviewer",
				Fields: []Binding{
					{Cell: "A1", Text: "Candidate report"},
					{Cell: "B1", Field: FieldCandidate},
					{Cell: "A2", Text: "Final result"},
					{Cell: "B2", Field: FieldFinalResult},
				},
				Blocks: []Block{
					{Kind: BlockComparison, Anchor: "A5", Title: "Score analysis"},
					{Kind: BlockComments, Anchor: "A11", Title: "Reviewer comments"},
				},
				ColumnWidths: map[string]float64{"A": 25, "B": 80, "C": 15, "D": 15},
			},
			{
				Variant:     models.VariantSummary,
				Description: "Header and reviewer comments only",
				Fields: []Binding{
					{Cell: "A1", Text: "Candidate report"},
					{Cell: "B1", Field: FieldCandidate},
					{Cell: "A2", Text: "Final result"},
					{Cell: "B2", Field: FieldFinalResult},
				},
				Blocks: []Block{
					{Kind: BlockComments, Anchor: "A5", Title: "Reviewer comments"},
				},
				ColumnWidths: map[string]float64{"A": 25, "B": 80},
			},
			{
				Variant:     models.VariantSubmissionForm,
				Description: "Fixed single-page submission form",
				Fields: []Binding{
					{Cell: "A1", Text: "Interview result submission form"},
					{Cell: "A3", Text: "Name"},
					{Cell: "B3", Field: FieldCandidate},
					{Cell: "A4", Text: "Result"},
					{Cell: "B4", Field: FieldFinalResult},
				},
				Blocks: []Block{
					{Kind: BlockScoreTable, Anchor: "A7", Title: "Scores"},
					{Kind: BlockCommentSlots, Anchor: "A14", Title: "Reviewer comments", Slots: 3},
				},
				ColumnWidths: map[string]float64{"A": 30, "B": 60, "C": 15, "D": 15},
			},
		},
	}
}
