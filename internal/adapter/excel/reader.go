// Package excel reads alert-definition rows from the spreadsheet the
// monitoring team authors thresholds in.
package excel

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

// Column layout of the alert workbook, first sheet:
// name | category | low threshold | high threshold | description.
const (
	colName = iota
	colCategory
	colLowThreshold
	colHighThreshold
	colDescription
)

// Reader is an xlsx-backed RowSource.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a reader for the workbook at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{
		path:   path,
		logger: logger.With("component", "excel_reader"),
	}
}

// Rows reads every definition row from the first sheet, skipping the header
// row and any row with an empty name cell.
func (r *Reader) Rows() ([]domain.AlertRow, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", r.path)
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var rows []domain.AlertRow
	for i, cells := range raw {
		if i == 0 {
			continue // header
		}
		if cell(cells, colName) == "" {
			continue
		}
		rows = append(rows, domain.AlertRow{
			Name:          cell(cells, colName),
			Category:      cell(cells, colCategory),
			LowThreshold:  cell(cells, colLowThreshold),
			HighThreshold: cell(cells, colHighThreshold),
			Description:   cell(cells, colDescription),
		})
	}

	r.logger.Info("read alert definitions from workbook", "sheet", sheet, "count", len(rows))
	return rows, nil
}

// cell returns column idx of a row, tolerating the ragged rows excelize
// produces when trailing cells are empty.
func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
