// internal/stages/reporting/write-workbook/service.go
package writeworkbook

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

const (
	StageName = "write-workbook"

	defaultSheet = "Sheet1"
)

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute renders a plan into an xlsx document. The writer knows nothing
// about layouts; it only places values at the planned cells.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan := input.Plan
	if plan == nil || len(plan.Sheets) == 0 {
		return nil, apperrors.NewInvalidInputError("report plan has no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	numberStyle := 0
	if s.config.NumberFormat > 0 {
		id, err := f.NewStyle(&excelize.Style{NumFmt: s.config.NumberFormat})
		if err != nil {
			return nil, apperrors.NewReportWriteFailedError(err)
		}
		numberStyle = id
	}

	names := make([]string, 0, len(plan.Sheets))
	for i, sheet := range plan.Sheets {
		if err := s.addSheet(f, i, sheet.Name); err != nil {
			return nil, apperrors.NewReportWriteFailedError(fmt.Errorf("sheet %q: %w", sheet.Name, err))
		}
		if err := s.writeSheet(f, sheet, numberStyle); err != nil {
			return nil, apperrors.NewReportWriteFailedError(fmt.Errorf("sheet %q: %w", sheet.Name, err))
		}
		names = append(names, sheet.Name)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewReportWriteFailedError(err)
	}

	s.logger.Debug("workbook written", map[string]interface{}{
		"sheets": len(names),
		"bytes":  buf.Len(),
	})
	return &Output{Content: buf.Bytes(), ContentType: ContentType, Sheets: names}, nil
}

func (s *Service) addSheet(f *excelize.File, index int, name string) error {
	if index == 0 {
		if name == defaultSheet {
			return nil
		}
		return f.SetSheetName(defaultSheet, name)
	}
	_, err := f.NewSheet(name)
	return err
}

func (s *Service) writeSheet(f *excelize.File, sheet models.SheetPlan, numberStyle int) error {
	for _, c := range sheet.Cells {
		if err := f.SetCellValue(sheet.Name, c.Cell, c.Value); err != nil {
			return fmt.Errorf("cell %s: %w", c.Cell, err)
		}
		if _, isNumber := c.Value.(float64); isNumber && numberStyle > 0 {
			if err := f.SetCellStyle(sheet.Name, c.Cell, c.Cell, numberStyle); err != nil {
				return fmt.Errorf("style %s: %w", c.Cell, err)
			}
		}
	}
	for col, width := range sheet.ColumnWidths {
		if err := f.SetColWidth(sheet.Name, col, col, width); err != nil {
			return fmt.Errorf("column %s: %w", col, err)
		}
	}
	return nil
}
