// Package testutil builds in-memory evaluation workbooks for tests.
package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

const (
	EvaluationSheet = "평가표"
	HeaderRow       = 5
)

// StandardHeader is the header row of the standard interview form. One
// column name carries an embedded newline the way the real forms do.
var StandardHeader = []string{
	"No",
	"성명",
	"심사위원 성명",
	"요구사항 관리",
	"사용방법론,도구",
	"목표달성/ 사업적 효과성",
	"Architecting Process (접근방법 및 절차)",
	"Architecture Design\n(표현 및 구조화)",
	"Architecture 검증 (프로토타입 및 평가)",
	"커뮤니케이션 (문서화/리더십)",
	"총점",
	"합격여부(Pass/Fail)",
	"총평",
}

// Evaluation is one reviewer row of the standard form.
type Evaluation struct {
	Candidate string
	Reviewer  string
	Scores    []float64 // up to seven sub-scores, in header order
	Total     float64
	Declared  string
	Comment   string
}

// Sheet is a named grid of rows starting at A1.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// Workbook writes sheets into a new workbook and returns its bytes.
func Workbook(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for r, row := range s.Rows {
			if len(row) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				t.Fatalf("write row %d: %v", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("encode workbook: %v", err)
	}
	return buf.Bytes()
}

// EvaluationWorkbook writes an evaluation sheet with a title block on rows
// 1-4, header on row 5 and data from row 6.
func EvaluationWorkbook(t testing.TB, header []string, rows ...[]interface{}) []byte {
	t.Helper()

	grid := make([][]interface{}, HeaderRow-1)
	grid[0] = []interface{}{"면접 평가표"}
	grid[2] = []interface{}{"평가일", "2024-05-01"}

	h := make([]interface{}, len(header))
	for i, v := range header {
		h[i] = v
	}
	grid = append(grid, h)
	grid = append(grid, rows...)

	return Workbook(t, Sheet{Name: EvaluationSheet, Rows: grid})
}

// StandardWorkbook writes evaluations using StandardHeader.
func StandardWorkbook(t testing.TB, evals ...Evaluation) []byte {
	t.Helper()

	rows := make([][]interface{}, len(evals))
	for i, e := range evals {
		row := make([]interface{}, len(StandardHeader))
		row[0] = i + 1
		row[1] = e.Candidate
		row[2] = e.Reviewer
		for j, s := range e.Scores {
			if j >= 7 {
				break
			}
			row[3+j] = s
		}
		row[10] = e.Total
		row[11] = e.Declared
		row[12] = e.Comment
		rows[i] = blankToNil(row)
	}
	return EvaluationWorkbook(t, StandardHeader, rows...)
}

func blankToNil(row []interface{}) []interface{} {
	for i, v := range row {
		if s, ok := v.(string); ok && s == "" {
			row[i] = nil
		}
	}
	return row
}
