// Package pipeline sequences the integrate -> derive -> score stages into one
// single-pass batch run over a fully materialized record set.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"branchcli/internal/integration"
	"branchcli/internal/kpi"
	"branchcli/internal/scoring"
	"branchcli/pkg/contracts/domain"
)

// Pipeline owns the three core stages for the duration of one run. There is
// no retry and no partial output: a stage failure aborts the run and the
// error identifies the stage that raised it.
type Pipeline struct {
	integrator *integration.Integrator
	calculator *kpi.Calculator
	rules      scoring.Rules
	logger     *slog.Logger
}

// New builds a pipeline. A nil logger falls back to the default.
func New(rules scoring.Rules, logger *slog.Logger, opts ...kpi.Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		integrator: integration.NewIntegrator(logger),
		calculator: kpi.NewCalculator(logger, opts...),
		rules:      rules,
		logger:     logger,
	}
}

// Run executes the full pipeline over the raw records and returns the scored
// table, one row per observed (entity, period).
func (p *Pipeline) Run(ctx context.Context, records []domain.RawRecord) ([]domain.ScoredRow, error) {
	start := time.Now()

	if err := p.rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}

	rows, err := p.integrator.Integrate(records)
	if err != nil {
		return nil, fmt.Errorf("integrate: %w", err)
	}

	metricRows, err := p.calculator.Derive(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}

	scored := scoring.Score(metricRows, p.rules)

	p.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("raw_records", len(records)),
		slog.Int("scored_rows", len(scored)),
		slog.Duration("duration", time.Since(start)))

	return scored, nil
}
