package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"retailcli/internal/config"
	"retailcli/internal/dataprocessing"
	"retailcli/internal/errors"
	"retailcli/internal/exporter"
	"retailcli/internal/files"
	"retailcli/internal/infrastructure"
	"retailcli/internal/validation"
	"retailcli/pkg/contracts"
)

func main() {
	inPath := flag.String("in", "", "input transaction file (.csv or .xlsx) or a directory of them")
	outFile := flag.String("out", "", "output filename for the cleaned set, relative to the data directory (defaults to <input>_cleaned.csv)")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in <file-or-dir> [-out <file>]")
		os.Exit(2)
	}

	// Local .env overrides are optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.Output != "stdout" && cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("processor.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultTimeout)
	defer cancel()
	ctx = infrastructure.WithRunID(ctx, infrastructure.NewRunID())

	validator := validation.NewFileValidator(logger)

	var inputs []string
	if validator.IsDirectory(*inPath) {
		discovered, err := files.NewDiscovery(*inPath).FindInputFiles(".")
		if err != nil {
			logger.ErrorContext(ctx, "Failed to discover input files", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(discovered) == 0 {
			logger.WarnContext(ctx, "No input files found", slog.String("directory", *inPath))
			return
		}
		for _, f := range discovered {
			inputs = append(inputs, f.Path)
		}
	} else {
		if err := validator.ValidateInputFile(*inPath); err != nil {
			logger.ErrorContext(ctx, "Input validation failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		inputs = []string{*inPath}
	}

	logger.InfoContext(ctx, "Starting transaction processing",
		slog.String("version", contracts.GetVersionString()),
		slog.String("input", *inPath),
		slog.Int("files", len(inputs)))

	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.CleanerConfig{
		CancellationMarker: cfg.Pipeline.CancellationMarker,
		MaxErrorRate:       cfg.Pipeline.MaxErrorRate,
		DateFormats:        cfg.Pipeline.DateFormats,
	})
	loader := dataprocessing.NewLoader(logger)

	failed := 0
	for _, input := range inputs {
		name := *outFile
		if name == "" || len(inputs) > 1 {
			name = outputName(input)
		}
		if err := processFile(ctx, logger, paths, loader, cleaner, input, name); err != nil {
			logger.ErrorContext(ctx, "Processing failed",
				slog.String("input_file", input),
				slog.String("error", err.Error()))
			failed++
		}
	}

	if failed > 0 {
		logger.ErrorContext(ctx, "Processing finished with failures",
			slog.Int("failed", failed),
			slog.Int("total", len(inputs)))
		os.Exit(1)
	}
}

func processFile(ctx context.Context, logger *slog.Logger, paths *config.Paths, loader *dataprocessing.Loader, cleaner *dataprocessing.Cleaner, input, outName string) error {
	table, err := loader.Load(input)
	if err != nil {
		return err
	}

	records, report, cleanErr := cleaner.Clean(ctx, table)

	// The cleaning report is written even when the run fails on quality
	jsonWriter := exporter.NewJSONWriter(paths)
	if report != nil {
		reportName := strings.TrimSuffix(outName, ".csv") + "_report.json"
		if err := jsonWriter.WriteCleaningReport(reportName, report); err != nil {
			return err
		}
	}

	if cleanErr != nil {
		if errors.IsDataQuality(cleanErr) {
			logger.ErrorContext(ctx, "Input failed the data quality threshold",
				slog.String("input_file", input),
				slog.Float64("error_rate", report.ErrorRate()))
		}
		return cleanErr
	}

	tables := exporter.NewTableExporter(paths)
	if err := tables.ExportTransactions("data/"+outName, records); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Processing complete",
		slog.String("input_file", input),
		slog.String("output_file", outName),
		slog.Int("rows_read", report.RowsRead),
		slog.Int("rows_kept", report.RowsKept),
		slog.Int("rows_dropped", report.RowsDropped()),
		slog.Int("anonymous_rows", report.AnonymousRows),
		slog.Duration("duration", report.Duration))
	return nil
}

// outputName derives the cleaned filename from the input filename.
func outputName(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_cleaned.csv"
}
