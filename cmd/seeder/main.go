// Command seeder writes the demo branch workbooks without running the
// pipeline, which is handy for preparing test directories.
package main

import (
	"flag"
	"log/slog"
	"os"

	"branchcli/internal/config"
	"branchcli/internal/infrastructure"
	"branchcli/internal/seed"
)

func main() {
	outDir := flag.String("out", "", "directory to write demo workbooks into (defaults to the configured data dir)")
	configFile := flag.String("config", "", "path to branchpulse.yaml (optional)")
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

	if *outDir == "" {
		*outDir = cfg.Paths.DataDir
	}

	paths, err := seed.Generate(*outDir, logger)
	if err != nil {
		logger.Error("Failed to seed demo data", "error", err)
		os.Exit(1)
	}

	logger.Info("demo data written",
		slog.String("dir", *outDir),
		slog.Int("files", len(paths)))
}
