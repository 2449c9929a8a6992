package report

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/errors"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/exporter"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/loader"
)

// Request carries the two path-like inputs of one report generation.
type Request struct {
	InputPath  string `validate:"required,reportinput"`
	OutputPath string `validate:"required,reportoutput"`
}

// Result is the terminal outcome of a successful run.
type Result struct {
	OutputPath   string
	MachineCount int
	Stats        Stats
}

// Generator is the single entry point of the pipeline: load, transform,
// render, one blocking call per invocation.
type Generator struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewGenerator creates a report generator. A nil logger falls back to the
// default slog logger.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	// registration only fails for blank tags or nil funcs
	_ = v.RegisterValidation("reportinput", hasInputExtension)
	_ = v.RegisterValidation("reportoutput", hasOutputExtension)

	return &Generator{logger: logger, validate: v}
}

// Generate runs the full pipeline for one request. On success the report
// workbook exists at the requested output path; on failure no output file is
// left behind and the returned error classifies the failing stage.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	logger := g.logger.With(slog.String("run_id", uuid.NewString()))

	logger.InfoContext(ctx, "starting report generation",
		slog.String("input", req.InputPath),
		slog.String("output", req.OutputPath))

	if err := g.validateRequest(req); err != nil {
		return nil, err
	}

	table, err := loader.LoadFile(req.InputPath)
	if err != nil {
		logger.ErrorContext(ctx, "load failed", slog.String("error", err.Error()))
		return nil, err
	}

	summaries, total, stats, err := NewTransformer(logger).Transform(ctx, table)
	if err != nil {
		logger.ErrorContext(ctx, "transform failed", slog.String("error", err.Error()))
		return nil, err
	}

	if len(summaries) == 0 {
		// deliberate: an input whose rows all wash out still yields a
		// report with headers and a zero grand total
		logger.WarnContext(ctx, "no machines survived filtering, writing empty report",
			slog.Int("rows_loaded", stats.RowsLoaded),
			slog.Int("rows_dropped_bad_date", stats.RowsDroppedDate))
	}

	if err := exporter.NewReportWriter(logger).Write(req.OutputPath, summaries, total); err != nil {
		logger.ErrorContext(ctx, "render failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.InfoContext(ctx, "report generation complete",
		slog.String("output", req.OutputPath),
		slog.Int("machines", len(summaries)))

	return &Result{
		OutputPath:   req.OutputPath,
		MachineCount: len(summaries),
		Stats:        stats,
	}, nil
}

// validateRequest maps validator failures onto the pipeline error taxonomy.
func (g *Generator) validateRequest(req Request) error {
	err := g.validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.ErrTypeInternal, "request validation failed", err)
	}

	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required" && fe.Field() == "InputPath":
			return apperrors.New(apperrors.ErrTypeValidation, "input path is required")
		case fe.Tag() == "required" && fe.Field() == "OutputPath":
			return apperrors.New(apperrors.ErrTypeValidation, "output path is required")
		case fe.Tag() == "reportinput":
			return apperrors.NewUnsupportedFormat(extensionOf(req.InputPath))
		case fe.Tag() == "reportoutput":
			return apperrors.New(apperrors.ErrTypeValidation, "output path must end in .xlsx")
		}
	}
	return apperrors.Wrap(apperrors.ErrTypeValidation, "invalid request", err)
}

func hasInputExtension(fl validator.FieldLevel) bool {
	switch extensionOf(fl.Field().String()) {
	case "xlsx", "xls", "csv":
		return true
	}
	return false
}

func hasOutputExtension(fl validator.FieldLevel) bool {
	return extensionOf(fl.Field().String()) == "xlsx"
}

func extensionOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
