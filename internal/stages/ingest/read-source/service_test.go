package readsource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	return NewService(ServiceDependencies{Logger: logger.NewTestLogger(t)}, DefaultConfig())
}

func TestReadTable_StandardForm(t *testing.T) {
	svc := newTestService(t)
	content := testutil.StandardWorkbook(t,
		testutil.Evaluation{Candidate: "Kim", Reviewer: "R1", Scores: []float64{8, 9, 10, 15, 15, 12, 14}, Total: 83, Declared: "Pass", Comment: "strong design"},
		testutil.Evaluation{Candidate: "Lee", Reviewer: "R1", Total: 65.5, Declared: "Fail"},
	)

	table, err := svc.ReadTable(Source{Name: "r1.xlsx", Content: content})
	require.NoError(t, err)

	assert.Equal(t, "r1.xlsx", table.Source)
	assert.Equal(t, "평가표", table.Sheet)
	assert.True(t, table.HasColumn("Architecture Design (표현 및 구조화)"), "embedded newline becomes a space")
	assert.Len(t, table.Columns, len(testutil.StandardHeader))

	require.Len(t, table.Rows, 2)
	first := table.Rows[0]
	assert.Equal(t, 6, first.Line)
	assert.Equal(t, "Kim", first.Values["성명"])
	assert.Equal(t, "83", first.Values["총점"])
	assert.Equal(t, "strong design", first.Values["총평"])

	second := table.Rows[1]
	assert.Equal(t, 7, second.Line)
	assert.Equal(t, "65.5", second.Values["총점"])
	v, ok := second.Get("총평")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestReadTable_MissingSheet(t *testing.T) {
	svc := newTestService(t)
	content := testutil.Workbook(t, testutil.Sheet{Name: "Data", Rows: [][]interface{}{{"성명"}, {"Kim"}}})

	_, err := svc.ReadTable(Source{Name: "wrong.xlsx", Content: content})
	require.Error(t, err)

	var sre *apperrors.SourceReadError
	require.True(t, errors.As(err, &sre))
	assert.Equal(t, "wrong.xlsx", sre.Source)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
	assert.Contains(t, sre.Hint(), "평가표")
	assert.Contains(t, sre.Hint(), "row 5")
}

func TestReadTable_NotAWorkbook(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ReadTable(Source{Name: "notes.txt", Content: []byte("hello")})
	var sre *apperrors.SourceReadError
	require.True(t, errors.As(err, &sre))
	assert.Equal(t, "notes.txt", sre.Source)
}

func TestReadTable_HeaderRowMissing(t *testing.T) {
	svc := newTestService(t)
	content := testutil.Workbook(t, testutil.Sheet{Name: "평가표", Rows: [][]interface{}{{"title"}}})

	_, err := svc.ReadTable(Source{Name: "short.xlsx", Content: content})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHeaderMissing))
}

func TestReadTable_SkipsBlankRowsAndWidensHeader(t *testing.T) {
	svc := newTestService(t)
	content := testutil.EvaluationWorkbook(t, []string{"성명", "총점"},
		[]interface{}{"Kim", 72},
		nil,
		[]interface{}{"Lee", 80, "extra"},
	)

	table, err := svc.ReadTable(Source{Name: "a.xlsx", Content: content})
	require.NoError(t, err)

	assert.Equal(t, []string{"성명", "총점", "Unnamed: 2"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 6, table.Rows[0].Line)
	assert.Equal(t, 8, table.Rows[1].Line)
	assert.Equal(t, "extra", table.Rows[1].Values["Unnamed: 2"])
	assert.Equal(t, "", table.Rows[0].Values["Unnamed: 2"])
}

func TestHeaderNames(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		width int
		want  []string
	}{
		{
			name:  "newline and padding",
			raw:   []string{" 성명 ", "Architecture Design\n(표현 및 구조화)", "a\r\nb"},
			width: 3,
			want:  []string{"성명", "Architecture Design (표현 및 구조화)", "a b"},
		},
		{
			name:  "blank cells",
			raw:   []string{"성명", "", "  "},
			width: 4,
			want:  []string{"성명", "Unnamed: 1", "Unnamed: 2", "Unnamed: 3"},
		},
		{
			name:  "duplicates",
			raw:   []string{"점수", "점수", "점수.1", "점수"},
			width: 4,
			want:  []string{"점수", "점수.1", "점수.1.1", "점수.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HeaderNames(tt.raw, tt.width))
		})
	}
}

func TestExecute_AbortsWholeBatch(t *testing.T) {
	svc := newTestService(t)
	good := testutil.StandardWorkbook(t, testutil.Evaluation{Candidate: "Kim", Total: 72})

	out, err := svc.Execute(context.Background(), &Input{Sources: []Source{
		{Name: "good.xlsx", Content: good},
		{Name: "bad.xlsx", Content: []byte("garbage")},
		{Name: "good2.xlsx", Content: good},
	}})
	assert.Nil(t, out)

	var sre *apperrors.SourceReadError
	require.True(t, errors.As(err, &sre))
	assert.Equal(t, "bad.xlsx", sre.Source)
}

func TestExecute_PreservesUploadOrder(t *testing.T) {
	svc := newTestService(t)
	a := testutil.StandardWorkbook(t, testutil.Evaluation{Candidate: "Kim", Total: 72})
	b := testutil.StandardWorkbook(t, testutil.Evaluation{Candidate: "Lee", Total: 60})

	out, err := svc.Execute(context.Background(), &Input{Sources: []Source{
		{Name: "b.xlsx", Content: b},
		{Name: "a.xlsx", Content: a},
	}})
	require.NoError(t, err)
	require.Len(t, out.Tables, 2)
	assert.Equal(t, "b.xlsx", out.Tables[0].Source)
	assert.Equal(t, "a.xlsx", out.Tables[1].Source)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{HeaderRow: 5}).Validate())
	assert.Error(t, (&Config{SheetName: "x"}).Validate())
}
