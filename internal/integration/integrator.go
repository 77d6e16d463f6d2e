// Package integration merges raw per-sheet records into one canonical row per
// (entity, period) pair, ready for the derivation engine's ordered walk.
package integration

import (
	"log/slog"
	"sort"

	apperrors "branchcli/internal/errors"
	"branchcli/pkg/contracts/domain"
)

// Integrator reconciles RawRecords into EntityPeriodRows.
type Integrator struct {
	logger *slog.Logger
}

// NewIntegrator creates an integrator. A nil logger falls back to the default.
func NewIntegrator(logger *slog.Logger) *Integrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Integrator{logger: logger}
}

type rowKey struct {
	entity string
	period domain.Period
}

// Integrate groups records by (entity, period), projects fields through the
// kind vocabulary, outer-joins the financial and operational sides, and sorts
// the result by entity then period.
//
// Duplicate records for the same (entity, period, kind) merge field by field:
// a later record (by ingestion order) overrides only the fields it defines,
// so a partial re-submission never wipes previously reported fields.
//
// Only a nil or empty input is fatal; malformed or out-of-vocabulary fields
// degrade to absent and the row continues through the pipeline.
func (in *Integrator) Integrate(records []domain.RawRecord) ([]domain.EntityPeriodRow, error) {
	if len(records) == 0 {
		return nil, apperrors.NewIntegrationError("integrator", "no raw records to integrate", nil)
	}

	rows := make(map[rowKey]*domain.EntityPeriodRow)
	order := make([]rowKey, 0, len(records))
	dropped := 0

	for _, rec := range records {
		key := rowKey{entity: rec.Entity, period: rec.Period}
		row, ok := rows[key]
		if !ok {
			row = &domain.EntityPeriodRow{Entity: rec.Entity, Period: rec.Period}
			rows[key] = row
			order = append(order, key)
		}

		for name, v := range rec.Fields {
			if !rec.Kind.Allows(name) {
				dropped++
				continue
			}
			if !v.Defined() {
				// A later absent value never erases an earlier observation.
				continue
			}
			row.SetField(name, v)
		}
	}

	if dropped > 0 {
		in.logger.Warn("dropped out-of-vocabulary fields",
			slog.Int("count", dropped))
	}

	out := make([]domain.EntityPeriodRow, 0, len(rows))
	for _, key := range order {
		out = append(out, *rows[key])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}
		return out[i].Period < out[j].Period
	})

	in.logger.Info("integrated raw records",
		slog.Int("raw_records", len(records)),
		slog.Int("rows", len(out)))

	return out, nil
}
