package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"upscli/internal/analytics"
	"upscli/internal/config"
	"upscli/internal/dataprocessing"
	"upscli/internal/exporter"
	"upscli/internal/infrastructure"
	"upscli/internal/validation"
)

func main() {
	inDir := flag.String("in", "", "input directory with raw billing CSV exports (defaults to data/invoices relative to executable)")
	outDir := flag.String("out", "", "output directory for normalized files (defaults to data/reports relative to executable)")
	delimiter := flag.String("delimiter", ",", "field delimiter of the raw exports")
	flag.Parse()

	// Initialize paths first to get default directories
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *inDir == "" {
		*inDir = paths.InvoicesDir
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	cfg.Data.Delimiter = *delimiter
	cfg.Logging.FilePath = paths.GetLogPath("processor.log")

	if err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}
	logger := infrastructure.GetLogger()

	logger.Info("Starting invoice normalization",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.String("delimiter", *delimiter),
		slog.String("executable_dir", paths.ExecutableDir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(*inDir, "*.csv"); err != nil {
		logger.Error("Input directory check failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output directory check failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	found, err := validator.CountFiles(*inDir, "*.csv")
	if err != nil {
		logger.Error("Failed to count invoice files", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Found %d invoice files in %s\n", found, *inDir)

	start := time.Now()
	// Correlation ID for every log line of this batch run
	ctx := infrastructure.ContextWithTraceID(context.Background())

	parser := dataprocessing.NewParser(cfg.Data, logger)
	batch, err := parser.ParseDir(ctx, *inDir)
	if err != nil {
		logger.Error("Failed to parse invoice directory", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Failed to parse %s: %v\n", *inDir, err)
		os.Exit(1)
	}

	// Progress lines for operators and wrapping scripts
	fmt.Printf("Parsed %d invoice files (%d lines, %d skipped)\n", batch.Files, batch.Lines, batch.Skipped)
	for _, failure := range batch.Failures {
		fmt.Printf("  failed: %s: %s\n", failure.File, failure.Error)
	}

	analyzer := analytics.New(batch.Records, logger)
	shipments := analyzer.Shipments()

	exp := exporter.NewReportExporter(*outDir)

	if err := exp.ExportChargeLinesStreaming(batch.Records, "charges.csv"); err != nil {
		logger.Error("Failed to write charge lines", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d charge lines)\n", filepath.Join(*outDir, "charges.csv"), len(batch.Records))

	if err := exp.ExportShipments(shipments, "shipments.csv"); err != nil {
		logger.Error("Failed to write shipments", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d shipments)\n", filepath.Join(*outDir, "shipments.csv"), len(shipments))

	jsonWriter := exporter.NewJSONWriter(*outDir)
	if err := jsonWriter.WriteJSON("summary.json", analyzer.Summary()); err != nil {
		logger.Error("Failed to write summary", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", filepath.Join(*outDir, "summary.json"))

	logger.Info("Normalization complete",
		slog.Int("files", batch.Files),
		slog.Int("records", len(batch.Records)),
		slog.Int("shipments", len(shipments)),
		slog.Int("skipped", batch.Skipped),
		slog.Int("failed_files", len(batch.Failures)),
		slog.Duration("elapsed", time.Since(start)))
	fmt.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
}
