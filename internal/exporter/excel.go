package exporter

import (
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/errors"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/pkg/contracts/domain"
)

const (
	// SheetName is the single output sheet of the report workbook.
	SheetName = "Report"

	headerFillColor = "4F81BD"
	dateFormat      = "2006-01-02"
	widthPadding    = 2
)

// summaryHeaders is the fixed column order of the machine block.
var summaryHeaders = []string{"machine", "last_work_date", "worked Q'ty", "WPC qty", "WPCS %"}

// totalHeaders is the fixed column order of the grand total block.
var totalHeaders = []string{"Total worked Q'ty", "Total WPC qty", "Total WPCS %"}

// ReportWriter renders the two-block summary workbook.
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a report writer. A nil logger falls back to the
// default slog logger.
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger}
}

// Write builds the report workbook and saves it to path, overwriting any
// existing file. The sheet carries the machine block at row 1, one blank
// separator row, then the grand total block. A failed save leaves no
// partial file behind.
func (w *ReportWriter) Write(path string, summaries []domain.MachineSummary, total domain.GrandTotal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return apperrors.NewIOError("prepare report sheet", err)
	}

	headerStyle, err := f.NewStyle(headerCellStyle())
	if err != nil {
		return apperrors.NewIOError("create header style", err)
	}
	dataStyle, err := f.NewStyle(dataCellStyle())
	if err != nil {
		return apperrors.NewIOError("create data style", err)
	}

	widths := newColumnWidths(len(summaryHeaders))

	// Block A: machine summaries, header + one row per machine
	if err := w.writeBlock(f, 1, summaryHeaders, summaryRows(summaries), headerStyle, dataStyle, widths); err != nil {
		return err
	}

	// One blank separator row, then block B: the grand total
	totalStart := len(summaries) + 3
	if err := w.writeBlock(f, totalStart, totalHeaders, [][]string{totalRow(total)}, headerStyle, dataStyle, widths); err != nil {
		return err
	}

	if err := widths.apply(f); err != nil {
		return apperrors.NewIOError("set column widths", err)
	}

	if err := f.SaveAs(path); err != nil {
		// never leave a partial workbook on disk
		os.Remove(path)
		return apperrors.NewIOError("write report", err)
	}

	w.logger.Info("report written",
		slog.String("path", path),
		slog.Int("machines", len(summaries)))

	return nil
}

// writeBlock renders one header row plus data rows starting at startRow,
// applying the header and data styles over the block's cell ranges.
func (w *ReportWriter) writeBlock(f *excelize.File, startRow int, headers []string, rows [][]string, headerStyle, dataStyle int, widths *columnWidths) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, startRow)
		if err != nil {
			return apperrors.NewIOError("resolve cell", err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return apperrors.NewIOError("write header cell", err)
		}
		widths.observe(i, h)
	}

	for r, row := range rows {
		for c, text := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, startRow+1+r)
			if err != nil {
				return apperrors.NewIOError("resolve cell", err)
			}
			if err := setCell(f, cell, text); err != nil {
				return apperrors.NewIOError("write data cell", err)
			}
			widths.observe(c, text)
		}
	}

	first, _ := excelize.CoordinatesToCellName(1, startRow)
	last, _ := excelize.CoordinatesToCellName(len(headers), startRow)
	if err := f.SetCellStyle(SheetName, first, last, headerStyle); err != nil {
		return apperrors.NewIOError("style header row", err)
	}

	if len(rows) > 0 {
		first, _ = excelize.CoordinatesToCellName(1, startRow+1)
		last, _ = excelize.CoordinatesToCellName(len(headers), startRow+len(rows))
		if err := f.SetCellStyle(SheetName, first, last, dataStyle); err != nil {
			return apperrors.NewIOError("style data rows", err)
		}
	}

	return nil
}

// setCell writes numeric-looking text as a number so spreadsheet consumers
// see real values, and everything else as a string.
func setCell(f *excelize.File, cell, text string) error {
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return f.SetCellValue(SheetName, cell, v)
	}
	return f.SetCellValue(SheetName, cell, text)
}

func summaryRows(summaries []domain.MachineSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Machine,
			s.LastWorkDate.Format(dateFormat),
			formatAmount(s.WorkedQty),
			formatAmount(s.WPCQty),
			formatAmount(s.WPCSPercent),
		})
	}
	return rows
}

func totalRow(total domain.GrandTotal) []string {
	return []string{
		formatAmount(total.WorkedQty),
		formatAmount(total.WPCQty),
		formatAmount(total.WPCSPercent),
	}
}

// formatAmount renders a quantity the way it shows in a cell: integral
// values without a decimal point, everything else with its exact decimals.
func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// columnWidths tracks the widest rendered text per sheet column across both
// blocks, since the blocks share columns on the one sheet.
type columnWidths struct {
	max []int
}

func newColumnWidths(n int) *columnWidths {
	return &columnWidths{max: make([]int, n)}
}

func (cw *columnWidths) observe(col int, text string) {
	for col >= len(cw.max) {
		cw.max = append(cw.max, 0)
	}
	if l := len(text); l > cw.max[col] {
		cw.max[col] = l
	}
}

func (cw *columnWidths) apply(f *excelize.File) error {
	for i, w := range cw.max {
		if w == 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(w+widthPadding)); err != nil {
			return err
		}
	}
	return nil
}

func headerCellStyle() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorder(),
	}
}

func dataCellStyle() *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorder(),
	}
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
