package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/ncrp-ingest/pkg/export"
	"github.com/hazyhaar/ncrp-ingest/pkg/ingest"
)

// cmdIngest returns the process exit code, so deferred cleanup runs first.
func cmdIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	input := fs.String("input", "", "input directory (overrides input_dir)")
	output := fs.String("output", "", "output directory (overrides output_dir)")
	workbook := fs.String("workbook", "", "workbook path (overrides workbook)")
	dbPath := fs.String("db", "", "SQLite processing log (overrides db_path)")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)
	override(&cfg.InputDir, *input)
	override(&cfg.OutputDir, *output)
	override(&cfg.Workbook, *workbook)
	override(&cfg.DBPath, *dbPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return runIngest(ctx, cfg, logger)
}

func runIngest(ctx context.Context, cfg config, logger *slog.Logger) int {
	paths, err := ingest.ListInputs(cfg.InputDir)
	if err != nil {
		logger.Error("list inputs", "dir", cfg.InputDir, "error", err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Printf("No input files in %s\n", cfg.InputDir)
		return 0
	}

	p, closeSinks, err := newPipeline(cfg, logger)
	if err != nil {
		logger.Error("pipeline", "error", err)
		return 1
	}
	defer closeSinks()

	batch := p.ProcessBatch(ctx, paths)

	if cfg.OutputDir != "" {
		path, err := export.WriteBatchJSON(cfg.OutputDir, batch)
		if err != nil {
			logger.Error("write batch summary", "error", err)
			return 1
		}
		logger.Info("batch summary written", "path", path)
	}

	fmt.Printf("Run %s: %d files, %d successful, %d failed, %d duplicates\n",
		batch.RunID, batch.TotalFiles, batch.Successful, batch.Failed, batch.Duplicates)
	for _, e := range batch.Results {
		if e.Summary == nil {
			fmt.Printf("  ERROR  %-18s  %s\n", e.ErrorType, e.Error)
			continue
		}
		dup := ""
		if e.IsDuplicate {
			dup = "  [duplicate]"
		}
		fmt.Printf("  %-7s  %-18s  %5.1f  %s%s\n",
			e.ValidationStatus, e.ComplaintID, e.DataQualityScore, e.SourceFile, dup)
	}
	return 0
}

func override(field *string, v string) {
	if v != "" {
		*field = v
	}
}
