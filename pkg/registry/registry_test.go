package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/models"
)

func TestBuiltin_IsValidAndComplete(t *testing.T) {
	reg := Builtin()
	require.NoError(t, reg.Validate())

	for _, v := range models.Variants() {
		tpl, err := reg.Template(v)
		require.NoError(t, err, v)
		assert.NotEmpty(t, tpl.Blocks, v)
	}

	form, _ := reg.Template(models.VariantSubmissionForm)
	assert.Equal(t, 3, form.Blocks[1].Slots)
}

func TestParse_OverridesOneVariant(t *testing.T) {
	doc := []byte(`
version: "2"
templates:
  - variant: summary
    fields:
      - cell: A1
        text: Report
      - cell: C1
        field: candidate
    blocks:
      - kind: comments
        anchor: A3
    column_widths:
      A: 12.5
`)
	reg, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, reg.Templates, 1)

	merged := Builtin().Merge(reg)
	assert.Equal(t, "2", merged.Version)
	assert.Len(t, merged.Templates, 3)

	tpl, err := merged.Template(models.VariantSummary)
	require.NoError(t, err)
	assert.Equal(t, "C1", tpl.Fields[1].Cell)
	assert.Equal(t, 12.5, tpl.ColumnWidths["A"])

	detailed, err := merged.Template(models.VariantDetailed)
	require.NoError(t, err)
	assert.Equal(t, Builtin().Templates[0], *detailed)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "templates: [unclosed"},
		{"missing templates", "version: \"1\""},
		{"unknown variant", "templates:\n  - variant: poster\n"},
		{"unknown block kind", "templates:\n  - variant: summary\n    blocks:\n      - kind: chart\n        anchor: A1\n"},
		{"bad anchor", "templates:\n  - variant: summary\n    blocks:\n      - kind: comments\n        anchor: 5A\n"},
		{"binding sets both", "templates:\n  - variant: summary\n    fields:\n      - cell: A1\n        text: x\n        field: candidate\n"},
		{"binding sets neither", "templates:\n  - variant: summary\n    fields:\n      - cell: A1\n"},
		{"duplicate variant", "templates:\n  - variant: summary\n  - variant: summary\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var se *apperrors.StandardError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, apperrors.ErrCodeLayoutRegistryInvalid, se.Code)
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Marshal(Builtin())
	require.NoError(t, err)

	reg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Builtin(), reg)
}

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Equal(t, Builtin(), reg)

	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - variant: detailed\n    blocks:\n      - kind: comments\n        anchor: A4\n"), 0o644))

	reg, err = LoadRegistry(path)
	require.NoError(t, err)
	tpl, err := reg.Template(models.VariantDetailed)
	require.NoError(t, err)
	require.Len(t, tpl.Blocks, 1)
	assert.Equal(t, BlockComments, tpl.Blocks[0].Kind)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTemplate_Unknown(t *testing.T) {
	_, err := (&LayoutRegistry{}).Template(models.VariantDetailed)
	var se *apperrors.StandardError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, apperrors.ErrCodeInvalidLayout, se.Code)
}
