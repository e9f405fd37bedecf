// pkg/registry/schema.go
package registry

import "interview-reports/internal/models"

// LayoutRegistry is the on-disk form of the report layout templates.
type LayoutRegistry struct {
	Version   string     `yaml:"version" json:"version"`
	Templates []Template `yaml:"templates" json:"templates"`
}

// Template is the declarative description of one report layout: ordered
// field-to-cell bindings plus anchored tabular blocks.
type Template struct {
	Variant      models.Variant     `yaml:"variant" json:"variant"`
	Description  string             `yaml:"description,omitempty" json:"description,omitempty"`
	Fields       []Binding          `yaml:"fields" json:"fields"`
	Blocks       []Block            `yaml:"blocks" json:"blocks"`
	ColumnWidths map[string]float64 `yaml:"column_widths,omitempty" json:"columnWidths,omitempty"`
}

// Binding writes either a literal text or a candidate field to one cell.
type Binding struct {
	Cell  string `yaml:"cell" json:"cell"`
	Field string `yaml:"field,omitempty" json:"field,omitempty"`
	Text  string `yaml:"text,omitempty" json:"text,omitempty"`
}

// Block is a tabular region whose top-left cell is Anchor. Title, when set,
// is written one row above the anchor.
type Block struct {
	Kind   string `yaml:"kind" json:"kind"`
	Anchor string `yaml:"anchor" json:"anchor"`
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Slots  int    `yaml:"slots,omitempty" json:"slots,omitempty"`
}

// Bindable candidate fields.
const (
	FieldCandidate   = "candidate"
	FieldFinalResult = "final_result"
)

// Block kinds.
const (
	BlockComparison   = "comparison"
	BlockComments     = "comments"
	BlockScoreTable   = "score_table"
	BlockCommentSlots = "comment_slots"
)

const registrySchema = `{
  "type": "object",
  "required": ["templates"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string"},
    "templates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["variant"],
        "additionalProperties": false,
        "properties": {
          "variant": {"enum": ["detailed", "summary", "submission_form"]},
          "description": {"type": "string"},
          "fields": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["cell"],
              "additionalProperties": false,
              "properties": {
                "cell": {"type": "string", "pattern": "^[A-Z]{1,3}[1-9][0-9]*$"},
                "field": {"enum": ["candidate", "final_result"]},
                "text": {"type": "string"}
              }
            }
          },
          "blocks": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["kind", "anchor"],
              "additionalProperties": false,
              "properties": {
                "kind": {"enum": ["comparison", "comments", "score_table", "comment_slots"]},
                "anchor": {"type": "string", "pattern": "^[A-Z]{1,3}[1-9][0-9]*$"},
                "title": {"type": "string"},
                "slots": {"type": "integer", "minimum": 1}
              }
            }
          },
          "column_widths": {
            "type": "object",
            "additionalProperties": {"type": "number", "minimum": 0}
          }
        }
      }
    }
  }
}`
