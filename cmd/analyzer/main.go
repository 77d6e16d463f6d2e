// Command analyzer runs the branch performance pipeline: scan the data
// directory for monthly workbooks, integrate and derive the KPI chain, score
// every entity-period, and write the Excel report.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"branchcli/internal/config"
	"branchcli/internal/exporter"
	"branchcli/internal/infrastructure"
	"branchcli/internal/kpi"
	"branchcli/internal/pipeline"
	"branchcli/internal/reader"
	"branchcli/internal/seed"
)

func main() {
	inDir := flag.String("in", "", "input directory for branch workbooks (defaults to the configured data dir)")
	outDir := flag.String("out", "", "output directory for the report (defaults to the configured reports dir)")
	configFile := flag.String("config", "", "path to branchpulse.yaml (optional)")
	seedData := flag.Bool("seed", false, "write the demo fixture into the input directory before analyzing")
	noArchive := flag.Bool("no-archive", false, "skip archiving workbooks before parsing")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	if *inDir == "" {
		*inDir = cfg.Paths.DataDir
	}
	if *outDir == "" {
		*outDir = cfg.Paths.ReportsDir
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	logger.InfoContext(ctx, "starting analyzer",
		slog.String("in", *inDir),
		slog.String("out", *outDir))

	if *seedData {
		if _, err := seed.Generate(*inDir, logger); err != nil {
			logger.ErrorContext(ctx, "Failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	var readerOpts []reader.Option
	if *noArchive {
		readerOpts = append(readerOpts, reader.WithoutArchive())
	}
	records, err := reader.NewReader(logger, readerOpts...).Scan(ctx, *inDir)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to scan data directory", "error", err)
		os.Exit(1)
	}

	p := pipeline.New(cfg.Scoring, logger, kpi.WithOrganicShare(cfg.Analysis.OrganicShare))
	scored, err := p.Run(ctx, records)
	if err != nil {
		logger.ErrorContext(ctx, "Pipeline run failed", "error", err)
		os.Exit(1)
	}

	path, err := exporter.NewReportWriter(*outDir, logger).Write(ctx, scored)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to write report", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "analysis complete",
		slog.String("report", path),
		slog.Int("rows", len(scored)))
}
