package models

import "strings"

// Result is a reviewer-level or candidate-level outcome.
type Result string

const (
	ResultPass          Result = "Pass"
	ResultFail          Result = "Fail"
	ResultNotApplicable Result = "N/A"
)

// Normalized returns the trimmed, lower-cased form used for comparisons.
func (r Result) Normalized() string {
	return NormalizeResult(string(r))
}

// NormalizeResult trims and lower-cases a result value.
func NormalizeResult(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseResult maps a user-supplied value onto a Result.
func ParseResult(s string) (Result, bool) {
	switch NormalizeResult(s) {
	case "pass":
		return ResultPass, true
	case "fail":
		return ResultFail, true
	case "n/a", "na", "notapplicable", "not applicable":
		return ResultNotApplicable, true
	}
	return "", false
}

// RawRow is one data row of a source table, keyed by normalized header name.
// Blank cells are stored as "".
type RawRow struct {
	Source string            `json:"source"`
	Line   int               `json:"line"`
	Values map[string]string `json:"values"`
}

// Get returns the raw value for a column and whether the source row had it.
func (r RawRow) Get(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Table is the content of one source document's evaluation sheet.
type Table struct {
	Source  string   `json:"source"`
	Sheet   string   `json:"sheet"`
	Columns []string `json:"columns"`
	Rows    []RawRow `json:"rows"`
}

// HasColumn reports whether the table's header row declares column.
func (t *Table) HasColumn(column string) bool {
	return containsColumn(t.Columns, column)
}

// Row is a normalized row: identity extracted, score columns coerced.
type Row struct {
	Source   string             `json:"source"`
	Line     int                `json:"line"`
	Identity string             `json:"identity"`
	Fields   map[string]string  `json:"fields"`
	Numbers  map[string]float64 `json:"numbers"`
}

// Dataset is the unified row set produced by the normalizer. Columns is the
// union of all source headers in first-seen order.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn is the schema-presence query every downstream stage consults.
func (d *Dataset) HasColumn(column string) bool {
	return containsColumn(d.Columns, column)
}

// CategoryDefinition names a group of score columns summed into one subtotal.
type CategoryDefinition struct {
	Name      string   `json:"name" mapstructure:"name"`
	Columns   []string `json:"columns" mapstructure:"columns"`
	MaxPoints float64  `json:"maxPoints" mapstructure:"max_points"`
}

// CategoryNames returns the names of defs in order.
func CategoryNames(defs []CategoryDefinition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// EvaluationRecord is one reviewer's scored evaluation of one candidate.
type EvaluationRecord struct {
	Candidate      string             `json:"candidate"`
	Reviewer       string             `json:"reviewer,omitempty"`
	Source         string             `json:"source"`
	Line           int                `json:"line"`
	Fields         map[string]string  `json:"fields"`
	Numbers        map[string]float64 `json:"numbers"`
	CategoryScores map[string]float64 `json:"categoryScores"`
	TotalScore     float64            `json:"totalScore"`
	HasTotal       bool               `json:"hasTotal"`
	ComputedResult Result             `json:"computedResult"`
	DeclaredResult string             `json:"declaredResult,omitempty"`
	HasDeclared    bool               `json:"hasDeclared"`
	Comment        string             `json:"comment,omitempty"`
	HasComment     bool               `json:"hasComment"`
	Mismatch       bool               `json:"mismatch"`
}

// RecordSet is the immutable output of one load. Columns carries the unified
// source schema so exports and presence checks survive a cache round trip.
type RecordSet struct {
	Columns    []string             `json:"columns"`
	Categories []CategoryDefinition `json:"categories"`
	Records    []EvaluationRecord   `json:"records"`
}

// HasColumn reports whether the unified source schema contains column.
func (rs *RecordSet) HasColumn(column string) bool {
	return containsColumn(rs.Columns, column)
}

// ForCandidate returns the candidate's records in record order.
func (rs *RecordSet) ForCandidate(candidate string) []EvaluationRecord {
	var out []EvaluationRecord
	for _, r := range rs.Records {
		if r.Candidate == candidate {
			out = append(out, r)
		}
	}
	return out
}

// Candidates returns distinct identities in first-seen order.
func (rs *RecordSet) Candidates() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rs.Records {
		if _, ok := seen[r.Candidate]; ok {
			continue
		}
		seen[r.Candidate] = struct{}{}
		out = append(out, r.Candidate)
	}
	return out
}

// Mismatch is one audit finding: the declared result disagrees with the computed one.
type Mismatch struct {
	Candidate string  `json:"candidate"`
	Reviewer  string  `json:"reviewer,omitempty"`
	Source    string  `json:"source"`
	Line      int     `json:"line"`
	Total     float64 `json:"total"`
	HasTotal  bool    `json:"hasTotal"`
	Declared  string  `json:"declared"`
	Computed  Result  `json:"computed"`
}

func containsColumn(columns []string, column string) bool {
	for _, c := range columns {
		if c == column {
			return true
		}
	}
	return false
}
