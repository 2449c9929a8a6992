// Command reportgen generates a machine throughput summary workbook from a
// production log file.
//
// Usage:
//
//	reportgen -in production_log.xlsx -out report.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/config"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/infrastructure"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	in := flag.String("in", "", "input production log (.xlsx, .xls or .csv)")
	out := flag.String("out", "", "output report path (.xlsx)")
	cfgPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
		closeLog = func() error { return nil }
	}
	defer closeLog()
	slog.SetDefault(logger)

	gen := report.NewGenerator(logger)
	res, err := gen.Generate(context.Background(), report.Request{
		InputPath:  *in,
		OutputPath: *out,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("report written to %s (%d machines, %d rows read)\n",
		res.OutputPath, res.MachineCount, res.Stats.RowsLoaded)
	return 0
}
