// Package loader reads tabular input files (Excel workbooks or delimited
// text) into an in-memory table of named columns.
package loader

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/errors"
)

// Row maps a column name to the raw cell text of one input row.
type Row map[string]string

// Table is the in-memory form of a loaded input file: the header columns in
// source order plus one Row per data line. All values are untyped strings;
// interpretation happens downstream.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries a column with the exact name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// LoadFile reads a tabular input file into a Table. The format is chosen by
// file extension (case-insensitive): .xlsx/.xls parse as a workbook's first
// sheet, .csv as delimited text. Anything else is an unsupported format.
func LoadFile(path string) (*Table, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	slog.Debug("loading input file",
		slog.String("path", path),
		slog.String("extension", ext))

	switch ext {
	case "xlsx", "xls":
		return loadWorkbook(path)
	case "csv":
		return loadCSV(path)
	default:
		return nil, apperrors.NewUnsupportedFormat(ext)
	}
}

// loadWorkbook parses the first sheet of an Excel workbook.
func loadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewIOError("open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.New(apperrors.ErrTypeNoData, "workbook contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewIOError("read workbook rows", err)
	}

	return fromRows(rows)
}

// loadCSV parses a delimited text file. Rows may have varying field counts;
// short rows are padded against the header downstream.
func loadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIOError("open csv", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewIOError("parse csv", err)
	}

	return fromRows(records)
}

// fromRows builds a Table from raw row data. The first row with any
// non-blank cell is the header; fully empty rows are skipped.
func fromRows(raw [][]string) (*Table, error) {
	headerIdx := -1
	for i, row := range raw {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, apperrors.New(apperrors.ErrTypeNoData, "input contains no header row")
	}

	columns := make([]string, 0, len(raw[headerIdx]))
	for i, name := range raw[headerIdx] {
		name = strings.TrimSpace(name)
		if i == 0 {
			// UTF-8 BOM sneaks into the first header cell of Excel-exported CSVs
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns = append(columns, name)
	}

	table := &Table{Columns: columns}
	for _, row := range raw[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		r := make(Row, len(columns))
		for i, name := range columns {
			if i < len(row) {
				r[name] = strings.TrimSpace(row[i])
			} else {
				r[name] = ""
			}
		}
		table.Rows = append(table.Rows, r)
	}

	slog.Debug("input file loaded",
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
