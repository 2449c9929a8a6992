// Package exporter renders the aggregated report as a styled Excel workbook.
//
// The output is a single sheet named "Report" with two blocks: the
// per-machine summary table at row 1, one blank separator row, then the
// grand total table. Header cells of both blocks get bold white text on a
// solid fill with thin borders; data cells are centered and bordered.
// Column widths auto-size to the widest rendered value plus padding.
package exporter
