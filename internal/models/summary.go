package models

// ScoreLine holds one set of category means plus the total mean.
type ScoreLine struct {
	Categories map[string]float64 `json:"categories"`
	Total      float64            `json:"total"`
}

// Category returns the mean for a category, 0 when absent.
func (s ScoreLine) Category(name string) float64 {
	return s.Categories[name]
}

// CandidateSummary is derived from a candidate's records and never stored on its own.
type CandidateSummary struct {
	Candidate       string    `json:"candidate"`
	EvaluationCount int       `json:"evaluationCount"`
	Means           ScoreLine `json:"means"`
	HasTotal        bool      `json:"hasTotal"`
	FinalResult     Result    `json:"finalResult"`
}

// CohortStatistics aggregates the full record set. Passers is zero-valued when
// PasserCount is 0.
type CohortStatistics struct {
	RecordCount int       `json:"recordCount"`
	PasserCount int       `json:"passerCount"`
	Overall     ScoreLine `json:"overall"`
	Passers     ScoreLine `json:"passers"`
	HasTotal    bool      `json:"hasTotal"`
}

// ReviewerCountAnomaly is an advisory finding: a candidate received a number
// of evaluations other than the expected count.
type ReviewerCountAnomaly struct {
	Candidate string `json:"candidate"`
	Count     int    `json:"count"`
	Expected  int    `json:"expected"`
}
