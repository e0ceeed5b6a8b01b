// Package xlsx reads the timetable from an exported workbook or CSV file.
package xlsx

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/model"
	"github.com/xuri/excelize/v2"
)

// Source reads one sheet of a local .xlsx file, or a .csv file. The first
// row is the header; every column is typed "string" and left to the
// normalizer to coerce.
type Source struct {
	logger *slog.Logger
	path   string
	sheet  string
}

// NewSource creates a source for path. An empty sheet reads the first sheet
// of the workbook; it is ignored for CSV files.
func NewSource(path, sheet string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{path: path, sheet: sheet, logger: logger}
}

// Name returns the file path, plus the sheet when one is set.
func (s *Source) Name() string {
	if s.sheet != "" {
		return s.path + "#" + s.sheet
	}
	return s.path
}

// Fetch reads the file.
func (s *Source) Fetch(ctx context.Context) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}
	if _, err := os.Stat(s.path); err != nil {
		return model.Table{}, fmt.Errorf("%w: %v", common.ErrNotFound, err)
	}

	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(s.path), ".csv") {
		rows, err = s.readCSV()
	} else {
		rows, err = s.readWorkbook()
	}
	if err != nil {
		return model.Table{}, err
	}

	table, err := TableFromRows(rows)
	if err != nil {
		return model.Table{}, fmt.Errorf("%s: %w", s.Name(), err)
	}

	s.logger.Debug("read timetable file",
		"path", s.path,
		"sheet", s.sheet,
		"columns", len(table.Columns),
		"rows", len(table.Rows))

	return table, nil
}

func (s *Source) readWorkbook() ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (s *Source) readCSV() ([][]string, error) {
	file, err := os.Open(s.path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedFeed, err)
	}
	return rows, nil
}

// TableFromRows turns text rows into a table, the first row being the
// header. Blank cells become null and short rows are padded.
func TableFromRows(rows [][]string) (model.Table, error) {
	if len(rows) == 0 {
		return model.Table{}, common.ErrEmptyFeed
	}

	header := rows[0]
	table := model.Table{
		Columns: make([]model.ColumnMeta, len(header)),
		Rows:    make([][]model.Value, 0, len(rows)-1),
	}
	for i, h := range header {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return model.Table{}, fmt.Errorf("%w: %v", common.ErrMalformedFeed, err)
		}
		table.Columns[i] = model.ColumnMeta{ID: name, Label: strings.TrimSpace(h), Type: "string"}
	}

	for _, raw := range rows[1:] {
		if blank(raw) {
			continue
		}
		cells := make([]model.Value, len(header))
		for i := range cells {
			text := ""
			if i < len(raw) {
				text = strings.TrimSpace(raw[i])
			}
			if text == "" {
				cells[i] = model.Null()
				continue
			}
			cells[i] = model.String(text)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
