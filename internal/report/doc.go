// Package report implements the machine throughput aggregation pipeline.
//
// The pipeline runs three stages in strict order:
//
// 1. Loader: the input file becomes an in-memory table (internal/loader)
// 2. Transformer: column projection, permissive date parsing with invalid-row
// rejection, machine allow-listing (A01..A38), grouped aggregation, the WPCS
// percentage, the 20% threshold filter and the grand total roll-up
// 3. Renderer: the two-block styled workbook (internal/exporter)
//
// Generator.Generate is the single entry point; it performs one blocking
// run per invocation and reports exactly one terminal outcome. Fatal
// conditions (unsupported format, missing columns, i/o failures) come back
// as typed errors; unparseable dates and disallowed machine codes are
// non-fatal row exclusions counted in Stats.
package report
