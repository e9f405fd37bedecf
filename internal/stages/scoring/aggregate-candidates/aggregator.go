// internal/stages/scoring/aggregate-candidates/aggregator.go
package aggregatecandidates

import (
	"sort"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/models"
)

// Aggregator derives summaries and statistics from an immutable record set.
// Nothing is cached; every call recomputes from the records.
type Aggregator struct {
	rs       *models.RecordSet
	expected int
	hasTotal bool
}

func NewAggregator(rs *models.RecordSet, config *Config) *Aggregator {
	return &Aggregator{
		rs:       rs,
		expected: config.ExpectedReviewers,
		hasTotal: rs.HasColumn(config.TotalColumn),
	}
}

// Summary builds one candidate's summary.
func (a *Aggregator) Summary(candidate string) (*models.CandidateSummary, error) {
	recs := a.rs.ForCandidate(candidate)
	if len(recs) == 0 {
		return nil, apperrors.NewCandidateNotFoundError(candidate)
	}
	s := a.summarize(candidate, recs)
	return &s, nil
}

// Summaries returns one summary per candidate, sorted by name.
func (a *Aggregator) Summaries() []models.CandidateSummary {
	names := a.rs.Candidates()
	sort.Strings(names)

	out := make([]models.CandidateSummary, 0, len(names))
	for _, name := range names {
		out = append(out, a.summarize(name, a.rs.ForCandidate(name)))
	}
	return out
}

// CohortStatistics averages over every record, and separately over Pass
// records only. With no Pass records the passer line is all zeros.
func (a *Aggregator) CohortStatistics() models.CohortStatistics {
	var passers []models.EvaluationRecord
	for _, r := range a.rs.Records {
		if r.ComputedResult == models.ResultPass {
			passers = append(passers, r)
		}
	}

	return models.CohortStatistics{
		RecordCount: len(a.rs.Records),
		PasserCount: len(passers),
		Overall:     a.mean(a.rs.Records),
		Passers:     a.mean(passers),
		HasTotal:    a.hasTotal,
	}
}

// ReviewerCountAnomalies lists candidates whose evaluation count differs
// from the expected count, sorted by name.
func (a *Aggregator) ReviewerCountAnomalies() []models.ReviewerCountAnomaly {
	counts := make(map[string]int)
	for _, r := range a.rs.Records {
		counts[r.Candidate]++
	}

	var out []models.ReviewerCountAnomaly
	for name, n := range counts {
		if n != a.expected {
			out = append(out, models.ReviewerCountAnomaly{Candidate: name, Count: n, Expected: a.expected})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Candidate < out[j].Candidate })
	return out
}

func (a *Aggregator) summarize(candidate string, recs []models.EvaluationRecord) models.CandidateSummary {
	return models.CandidateSummary{
		Candidate:       candidate,
		EvaluationCount: len(recs),
		Means:           a.mean(recs),
		HasTotal:        a.hasTotal,
		FinalResult:     FinalResult(recs),
	}
}

// mean averages category scores and totals. An empty slice yields zeros.
func (a *Aggregator) mean(recs []models.EvaluationRecord) models.ScoreLine {
	line := models.ScoreLine{Categories: make(map[string]float64, len(a.rs.Categories))}
	for _, cat := range a.rs.Categories {
		line.Categories[cat.Name] = 0
	}
	if len(recs) == 0 {
		return line
	}

	n := float64(len(recs))
	for _, cat := range a.rs.Categories {
		sum := 0.0
		for _, r := range recs {
			sum += r.CategoryScores[cat.Name]
		}
		line.Categories[cat.Name] = sum / n
	}
	total := 0.0
	for _, r := range recs {
		total += r.TotalScore
	}
	line.Total = total / n
	return line
}

// FinalResult is Pass only when every record is Pass. Any Fail or N/A
// record makes the candidate Fail.
func FinalResult(recs []models.EvaluationRecord) models.Result {
	if len(recs) == 0 {
		return models.ResultFail
	}
	for _, r := range recs {
		if r.ComputedResult != models.ResultPass {
			return models.ResultFail
		}
	}
	return models.ResultPass
}
