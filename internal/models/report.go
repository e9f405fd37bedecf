package models

import (
	"fmt"
	"strings"
)

// Variant selects one of the interchangeable report layouts.
type Variant string

const (
	VariantDetailed       Variant = "detailed"
	VariantSummary        Variant = "summary"
	VariantSubmissionForm Variant = "submission_form"
)

// Variants lists every supported layout in display order.
func Variants() []Variant {
	return []Variant{VariantDetailed, VariantSummary, VariantSubmissionForm}
}

// ParseVariant accepts the canonical names plus a few spellings.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "detailed", "detail":
		return VariantDetailed, nil
	case "summary":
		return VariantSummary, nil
	case "submission_form", "submission-form", "submissionform", "form":
		return VariantSubmissionForm, nil
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

// ReportScope distinguishes single-candidate from full-cohort documents.
type ReportScope string

const (
	ScopeCandidate ReportScope = "candidate"
	ScopeCohort    ReportScope = "cohort"
)

// ReportPlan is a position-addressed description of a report document.
type ReportPlan struct {
	Variant Variant     `json:"variant"`
	Scope   ReportScope `json:"scope"`
	Sheets  []SheetPlan `json:"sheets"`
}

// SheetPlan holds every value assignment for one sheet.
type SheetPlan struct {
	Name         string             `json:"name"`
	Cells        []CellValue        `json:"cells"`
	Regions      []Region           `json:"regions,omitempty"`
	ColumnWidths map[string]float64 `json:"columnWidths,omitempty"`
}

// Value returns the value assigned to cell and whether one was assigned.
func (s SheetPlan) Value(cell string) (interface{}, bool) {
	for _, c := range s.Cells {
		if c.Cell == cell {
			return c.Value, true
		}
	}
	return nil, false
}

// Region returns the named region.
func (s SheetPlan) Region(name string) (Region, bool) {
	for _, r := range s.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// CellValue assigns one value (string or float64) to an A1 cell reference.
type CellValue struct {
	Cell  string      `json:"cell"`
	Value interface{} `json:"value"`
}

// Region spans a tabular block, inclusive of both corners.
type Region struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ExportFilter narrows the combined export. Zero values mean "all".
type ExportFilter struct {
	Candidates []string `json:"candidates,omitempty"`
	Result     Result   `json:"result,omitempty"`
}

// Matches reports whether a record passes the filter.
func (f ExportFilter) Matches(r EvaluationRecord) bool {
	if len(f.Candidates) > 0 {
		found := false
		for _, c := range f.Candidates {
			if c == r.Candidate {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return f.Result == "" || f.Result == r.ComputedResult
}
