// internal/stages/reporting/build-report/combined.go
package buildreport

import (
	"interview-reports/internal/models"
)

// ResultColumn is the derived column holding each reviewer's computed result.
const ResultColumn = "Reviewer_Result"

// CombinedColumns lists the export header: passthrough source columns, then
// category scores and the computed result. A derived column replaces a
// source column of the same name.
func CombinedColumns(rs *models.RecordSet) []string {
	derived := append(models.CategoryNames(rs.Categories), ResultColumn)
	isDerived := make(map[string]bool, len(derived))
	for _, d := range derived {
		isDerived[d] = true
	}

	cols := make([]string, 0, len(rs.Columns)+len(derived))
	for _, c := range rs.Columns {
		if !isDerived[c] {
			cols = append(cols, c)
		}
	}
	return append(cols, derived...)
}

// BuildCombined plans the single-sheet export of every record matching the
// filter. The mismatch flag is not exported.
func (s *Service) BuildCombined(rs *models.RecordSet, sheet string, filter models.ExportFilter) *models.ReportPlan {
	w := newSheetWriter(sheet)
	cols := CombinedColumns(rs)
	for i, c := range cols {
		w.set(1+i, 1, c)
	}

	isCategory := make(map[string]bool, len(rs.Categories))
	for _, c := range rs.Categories {
		isCategory[c.Name] = true
	}

	row := 1
	for _, rec := range rs.Records {
		if !filter.Matches(rec) {
			continue
		}
		row++
		for i, c := range cols {
			switch {
			case c == ResultColumn:
				w.set(1+i, row, string(rec.ComputedResult))
			case isCategory[c]:
				w.set(1+i, row, rec.CategoryScores[c])
			default:
				if n, ok := rec.Numbers[c]; ok {
					w.set(1+i, row, n)
				} else if v := rec.Fields[c]; v != "" {
					w.set(1+i, row, v)
				}
			}
		}
	}
	w.region("combined", 1, 1, len(cols), row)

	s.logger.Info("combined export planned", map[string]interface{}{
		"rows":       row - 1,
		"candidates": len(filter.Candidates),
		"result":     filter.Result,
	})
	return &models.ReportPlan{Scope: models.ScopeCohort, Sheets: []models.SheetPlan{w.plan}}
}
