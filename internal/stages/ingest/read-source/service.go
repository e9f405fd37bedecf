// internal/stages/ingest/read-source/service.go
package readsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/common/logger"
	"interview-reports/internal/common/metrics"
	"interview-reports/internal/models"
)

const (
	StageName = "read-source"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrHeaderMissing = errors.New("header row not found")
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

// Execute reads every source in order. The first unreadable source aborts
// the batch with a *apperrors.SourceReadError.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{Tables: make([]models.Table, 0, len(input.Sources))}

	for _, src := range input.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := s.ReadTable(src)
		if err != nil {
			metrics.SourcesRead.WithLabelValues("error").Inc()
			s.logger.Error("source read failed", map[string]interface{}{
				"source": src.Name,
				"error":  err,
			})
			return nil, err
		}
		metrics.SourcesRead.WithLabelValues("ok").Inc()

		s.logger.Debug("source read", map[string]interface{}{
			"source":  src.Name,
			"columns": len(table.Columns),
			"rows":    len(table.Rows),
		})
		out.Tables = append(out.Tables, *table)
	}

	s.logger.Info("sources read", map[string]interface{}{
		"sources": len(out.Tables),
	})
	return out, nil
}

// ReadTable parses one document's evaluation sheet.
func (s *Service) ReadTable(src Source) (*models.Table, error) {
	fail := func(cause error) error {
		return apperrors.NewSourceReadError(src.Name, s.config.SheetName, s.config.HeaderRow, cause)
	}

	f, err := excelize.OpenReader(bytes.NewReader(src.Content))
	if err != nil {
		return nil, fail(fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(s.config.SheetName)
	if err != nil {
		return nil, fail(err)
	}
	if idx < 0 {
		return nil, fail(fmt.Errorf("%w: %q", ErrSheetNotFound, s.config.SheetName))
	}

	grid, err := f.GetRows(s.config.SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fail(fmt.Errorf("read rows: %w", err))
	}
	if len(grid) < s.config.HeaderRow || isBlankRow(grid[s.config.HeaderRow-1]) {
		return nil, fail(fmt.Errorf("%w: row %d is empty", ErrHeaderMissing, s.config.HeaderRow))
	}

	data := grid[s.config.HeaderRow:]
	width := len(grid[s.config.HeaderRow-1])
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}
	columns := HeaderNames(grid[s.config.HeaderRow-1], width)

	table := &models.Table{
		Source:  src.Name,
		Sheet:   s.config.SheetName,
		Columns: columns,
	}
	for i, row := range data {
		if isBlankRow(row) {
			continue
		}
		values := make(map[string]string, len(columns))
		for c, name := range columns {
			if c < len(row) {
				values[name] = row[c]
			} else {
				values[name] = ""
			}
		}
		table.Rows = append(table.Rows, models.RawRow{
			Source: src.Name,
			Line:   s.config.HeaderRow + 1 + i,
			Values: values,
		})
	}
	return table, nil
}

// NormalizeHeader turns embedded line breaks into single spaces and trims
// surrounding whitespace.
func NormalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\r\n", " ")
	h = strings.ReplaceAll(h, "\n", " ")
	return strings.TrimSpace(h)
}

// HeaderNames normalizes a header row to width columns. Blank cells become
// "Unnamed: <index>" and repeated names get ".1", ".2" suffixes.
func HeaderNames(raw []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	taken := make(map[string]bool, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw) {
			name = NormalizeHeader(raw[i])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		base := name
		for taken[name] {
			seen[base]++
			name = base + "." + strconv.Itoa(seen[base])
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
