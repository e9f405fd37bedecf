// cmd/report-manager/output.go
package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"interview-reports/internal/models"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	passed  = color.New(color.FgGreen).SprintFunc()
	failed  = color.New(color.FgRed).SprintFunc()
	muted   = color.New(color.FgYellow).SprintFunc()
)

func resultText(r models.Result) string {
	switch r {
	case models.ResultPass:
		return passed(string(r))
	case models.ResultFail:
		return failed(string(r))
	default:
		return muted(string(r))
	}
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func renderAnomalies(w io.Writer, anomalies []models.ReviewerCountAnomaly) {
	if len(anomalies) == 0 {
		return
	}
	heading.Fprintln(w, "\nReviewer count anomalies")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Candidate", "Evaluations", "Expected"})
	for _, a := range anomalies {
		table.Append([]string{a.Candidate, strconv.Itoa(a.Count), strconv.Itoa(a.Expected)})
	}
	table.Render()
}

func renderMismatches(w io.Writer, mismatches []models.Mismatch, withReviewer bool) {
	if len(mismatches) == 0 {
		return
	}
	heading.Fprintln(w, "\nDeclared result mismatches")

	header := []string{"Candidate"}
	if withReviewer {
		header = append(header, "Reviewer")
	}
	header = append(header, "Total", "Declared", "Computed", "Source")

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, m := range mismatches {
		row := []string{m.Candidate}
		if withReviewer {
			row = append(row, m.Reviewer)
		}
		total := string(models.ResultNotApplicable)
		if m.HasTotal {
			total = score(m.Total)
		}
		row = append(row, total, m.Declared, resultText(m.Computed), fmt.Sprintf("%s:%d", m.Source, m.Line))
		table.Append(row)
	}
	table.Render()
}

func renderSummaries(w io.Writer, categories []models.CategoryDefinition, summaries []models.CandidateSummary, cohort models.CohortStatistics) {
	heading.Fprintln(w, "\nCandidate summary")

	header := []string{"Candidate", "Evaluations", "Final result"}
	for _, c := range categories {
		header = append(header, c.Name)
	}
	header = append(header, "Total")

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, s := range summaries {
		row := []string{s.Candidate, strconv.Itoa(s.EvaluationCount), resultText(s.FinalResult)}
		row = append(row, line(categories, s.Means, s.HasTotal)...)
		table.Append(row)
	}
	table.Render()

	heading.Fprintln(w, "\nCohort averages")
	cohortTable := tablewriter.NewWriter(w)
	cohortHeader := []string{"Group", "Evaluations"}
	for _, c := range categories {
		cohortHeader = append(cohortHeader, c.Name)
	}
	cohortTable.SetHeader(append(cohortHeader, "Total"))
	cohortTable.Append(append([]string{"Overall", strconv.Itoa(cohort.RecordCount)}, line(categories, cohort.Overall, cohort.HasTotal)...))
	cohortTable.Append(append([]string{"Passers", strconv.Itoa(cohort.PasserCount)}, line(categories, cohort.Passers, cohort.HasTotal)...))
	cohortTable.Render()
}

func line(categories []models.CategoryDefinition, l models.ScoreLine, hasTotal bool) []string {
	out := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		out = append(out, score(l.Category(c.Name)))
	}
	if hasTotal {
		return append(out, score(l.Total))
	}
	return append(out, string(models.ResultNotApplicable))
}
