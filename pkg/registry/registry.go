// pkg/registry/registry.go
package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/xuri/excelize/v2"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/validation"
	"interview-reports/internal/models"
)

var schema = validation.MustCompile(registrySchema)

// LoadRegistry reads a registry file and lays its templates over the
// built-in ones. An empty path yields the built-ins.
func LoadRegistry(path string) (*LayoutRegistry, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewLayoutRegistryInvalidError(fmt.Sprintf("read %s: %v", path, err))
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Builtin().Merge(reg), nil
}

// Parse decodes and validates a YAML registry document.
func Parse(data []byte) (*LayoutRegistry, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewLayoutRegistryInvalidError(fmt.Sprintf("parse: %v", err))
	}
	result, err := schema.Validate(doc)
	if err != nil {
		return nil, apperrors.NewLayoutRegistryInvalidError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewLayoutRegistryInvalidError(result.Error())
	}

	var reg LayoutRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, apperrors.NewLayoutRegistryInvalidError(fmt.Sprintf("decode: %v", err))
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Marshal renders the registry as YAML.
func Marshal(reg *LayoutRegistry) ([]byte, error) {
	return yaml.Marshal(reg)
}

// Merge returns a copy of r where every template of other replaces the
// template of the same variant.
func (r *LayoutRegistry) Merge(other *LayoutRegistry) *LayoutRegistry {
	out := &LayoutRegistry{Version: r.Version}
	if other.Version != "" {
		out.Version = other.Version
	}

	override := make(map[models.Variant]Template, len(other.Templates))
	for _, t := range other.Templates {
		override[t.Variant] = t
	}
	for _, t := range r.Templates {
		if o, ok := override[t.Variant]; ok {
			t = o
			delete(override, t.Variant)
		}
		out.Templates = append(out.Templates, t)
	}
	for _, t := range other.Templates {
		if _, ok := override[t.Variant]; ok {
			out.Templates = append(out.Templates, t)
		}
	}
	return out
}

// Template returns the template for a variant.
func (r *LayoutRegistry) Template(variant models.Variant) (*Template, error) {
	for i := range r.Templates {
		if r.Templates[i].Variant == variant {
			return &r.Templates[i], nil
		}
	}
	return nil, apperrors.NewInvalidLayoutError(string(variant))
}

// Validate checks what the schema cannot: unique variants, well-formed cell
// references, and bindings that set exactly one of field or text.
func (r *LayoutRegistry) Validate() error {
	var problems []string
	seen := make(map[models.Variant]bool)

	for _, t := range r.Templates {
		if _, err := models.ParseVariant(string(t.Variant)); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if seen[t.Variant] {
			problems = append(problems, fmt.Sprintf("duplicate template for %s", t.Variant))
		}
		seen[t.Variant] = true

		for _, b := range t.Fields {
			if _, _, err := excelize.CellNameToCoordinates(b.Cell); err != nil {
				problems = append(problems, fmt.Sprintf("%s: bad cell %q", t.Variant, b.Cell))
			}
			if (b.Field == "") == (b.Text == "") {
				problems = append(problems, fmt.Sprintf("%s: cell %s must set exactly one of field or text", t.Variant, b.Cell))
			}
		}
		for _, b := range t.Blocks {
			if _, _, err := excelize.CellNameToCoordinates(b.Anchor); err != nil {
				problems = append(problems, fmt.Sprintf("%s: bad anchor %q", t.Variant, b.Anchor))
			}
			if b.Kind == BlockCommentSlots && b.Slots < 0 {
				problems = append(problems, fmt.Sprintf("%s: negative slot count", t.Variant))
			}
		}
		for col := range t.ColumnWidths {
			if _, err := excelize.ColumnNameToNumber(col); err != nil {
				problems = append(problems, fmt.Sprintf("%s: bad column %q", t.Variant, col))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return apperrors.NewLayoutRegistryInvalidError(strings.Join(problems, "; "))
	}
	return nil
}
