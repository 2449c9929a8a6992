package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/errors"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/loader"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/pkg/contracts/domain"
)

// requiredColumns are the exact source column names the pipeline consumes,
// in the order missing-column failures report them.
var requiredColumns = []string{
	"Work date",
	"Shift",
	"Machine",
	"Q`ty",
	"WPCS Qty",
}

// selectedRow holds the five consumed fields of one input row after
// projection, with the date and quantities already interpreted.
type selectedRow struct {
	workDate  time.Time
	shift     string
	machine   string
	workedQty float64
	wpcQty    float64
}

// Stats counts what happened to the input rows on the way through the
// pipeline. Row drops are data cleaning, not errors; the counts surface in
// the run log and the Result.
type Stats struct {
	RowsLoaded       int
	RowsDroppedDate  int
	RowsNotAllowed   int
	MachinesBelowMin int
}

// Transformer turns a loaded table into the filtered machine summaries and
// the grand total.
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer creates a transformer. A nil logger falls back to the
// default slog logger.
func NewTransformer(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger}
}

// Transform applies the aggregation pipeline in strict order: projection,
// date parsing, machine allow-listing, grouping, ratio, threshold filter and
// grand total. Summaries come back in ascending machine code order.
func (t *Transformer) Transform(ctx context.Context, table *loader.Table) ([]domain.MachineSummary, domain.GrandTotal, Stats, error) {
	stats := Stats{RowsLoaded: len(table.Rows)}

	if err := checkColumns(table); err != nil {
		return nil, domain.GrandTotal{}, stats, err
	}

	rows := t.selectRows(ctx, table, &stats)

	summaries, err := aggregate(rows)
	if err != nil {
		return nil, domain.GrandTotal{}, stats, err
	}

	kept := summaries[:0]
	for _, s := range summaries {
		if s.WPCSPercent >= WPCSThreshold {
			kept = append(kept, s)
		} else {
			stats.MachinesBelowMin++
		}
	}
	summaries = kept

	total := grandTotal(summaries)

	t.logger.InfoContext(ctx, "transform complete",
		slog.Int("rows_loaded", stats.RowsLoaded),
		slog.Int("rows_dropped_bad_date", stats.RowsDroppedDate),
		slog.Int("rows_dropped_machine", stats.RowsNotAllowed),
		slog.Int("machines_below_threshold", stats.MachinesBelowMin),
		slog.Int("machines_reported", len(summaries)))

	return summaries, total, stats, nil
}

// checkColumns verifies every required source column is present, reporting
// all absent ones at once.
func checkColumns(table *loader.Table) error {
	var missing []string
	for _, name := range requiredColumns {
		if !table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingColumn(missing)
	}
	return nil
}

// selectRows projects each input row onto the five consumed fields, parsing
// the work date and quantities. Rows with unparseable dates are dropped and
// rows for machines outside A01..A38 are excluded; both silently by policy.
func (t *Transformer) selectRows(ctx context.Context, table *loader.Table, stats *Stats) []selectedRow {
	rows := make([]selectedRow, 0, len(table.Rows))
	for i, raw := range table.Rows {
		date, ok := parseWorkDate(raw["Work date"])
		if !ok {
			stats.RowsDroppedDate++
			t.logger.DebugContext(ctx, "dropping row with unparseable work date",
				slog.Int("row", i+1),
				slog.String("work_date", raw["Work date"]))
			continue
		}

		machine := raw["Machine"]
		if _, allowed := allowedMachines[machine]; !allowed {
			stats.RowsNotAllowed++
			continue
		}

		rows = append(rows, selectedRow{
			workDate:  date,
			shift:     raw["Shift"],
			machine:   machine,
			workedQty: parseQuantity(raw["Q`ty"]),
			wpcQty:    parseQuantity(raw["WPCS Qty"]),
		})
	}
	return rows
}

// aggregate groups rows by machine and computes the latest work date plus
// the quantity sums per group, then joins the two aggregates 1:1 and derives
// the WPCS percentage. A machine present on only one side of the join is a
// defect, not data.
func aggregate(rows []selectedRow) ([]domain.MachineSummary, error) {
	lastDates := make(map[string]time.Time)
	type qtySum struct {
		worked float64
		wpc    float64
	}
	sums := make(map[string]qtySum)

	for _, r := range rows {
		if last, ok := lastDates[r.machine]; !ok || r.workDate.After(last) {
			lastDates[r.machine] = r.workDate
		}
		s := sums[r.machine]
		s.worked += r.workedQty
		s.wpc += r.wpcQty
		sums[r.machine] = s
	}

	if len(lastDates) != len(sums) {
		return nil, apperrors.NewInternalError(fmt.Sprintf(
			"aggregation mismatch: %d machines with dates, %d with quantities",
			len(lastDates), len(sums)))
	}

	summaries := make([]domain.MachineSummary, 0, len(lastDates))
	for machine, last := range lastDates {
		s, ok := sums[machine]
		if !ok {
			return nil, apperrors.NewInternalError(fmt.Sprintf(
				"aggregation mismatch: machine %s has a last date but no quantity sums", machine))
		}
		summaries = append(summaries, domain.MachineSummary{
			Machine:      machine,
			LastWorkDate: last,
			WorkedQty:    s.worked,
			WPCQty:       s.wpc,
			WPCSPercent:  wpcsPercent(s.wpc, s.worked),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Machine < summaries[j].Machine
	})

	return summaries, nil
}

// grandTotal sums the surviving rows and recomputes the ratio with the same
// zero guard.
func grandTotal(summaries []domain.MachineSummary) domain.GrandTotal {
	var total domain.GrandTotal
	for _, s := range summaries {
		total.WorkedQty += s.WorkedQty
		total.WPCQty += s.WPCQty
	}
	total.WPCSPercent = wpcsPercent(total.WPCQty, total.WorkedQty)
	return total
}

// wpcsPercent computes the WPC share of the worked quantity as a percentage
// rounded to 2 decimals, defined as 0 when nothing was worked.
func wpcsPercent(wpc, worked float64) float64 {
	if worked == 0 {
		return 0
	}
	return round2(wpc / worked * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// excelEpoch is the serial date origin used by Excel (with the compatible
// 1900 leap year bug offset already folded in).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order; month-first wins for ambiguous slash
// dates, matching the source data convention.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02.01.2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseWorkDate parses a calendar date permissively: a list of common
// layouts plus Excel serial numbers, which GetRows surfaces for date-styled
// cells in unformatted workbooks.
func parseWorkDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 1 && serial < 300000 {
		days := int(serial)
		frac := serial - float64(days)
		return excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * float64(24*time.Hour))), true
	}

	return time.Time{}, false
}

// parseQuantity interprets a numeric cell permissively: trimmed, thousands
// commas stripped, anything unparseable counts as 0.
func parseQuantity(value string) float64 {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return v
}
