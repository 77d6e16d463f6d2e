// Package kpi derives the per-entity performance metric chain from canonical
// monthly rows. Each metric is guarded against division by zero and clamped
// into a plausible range so sparse or noisy months never push NaN, Inf, or
// absurd outliers into the health rating.
package kpi

import (
	"context"
	"log/slog"
	"math"
	"time"

	apperrors "branchcli/internal/errors"
	"branchcli/pkg/contracts/domain"
)

// Validity bounds for clamped metrics. Values outside these intervals are
// treated as measurement noise and pinned to the nearest bound.
const (
	RetentionLower = 0.55
	RetentionUpper = 0.98

	GrossMarginLower = 0.20
	GrossMarginUpper = 0.85

	LTVLower = 30.0
	LTVUpper = 100000.0

	LTVCACLower = 0.01
	LTVCACUpper = 100.0

	// ChurnFloor bounds the LTV horizon: 1/(1.1 - retention) is capped by
	// flooring the denominator, so a retention near the upper clamp cannot
	// blow the lifetime estimate up unboundedly.
	ChurnFloor = 0.05

	// DefaultOrganicShare is the assumed fraction of reported new users that
	// arrived organically and should not be attributed to marketing spend.
	DefaultOrganicShare = 0.20

	// minPaidNewUsers floors the CAC denominator.
	minPaidNewUsers = 1.0
)

// Calculator walks entity-ordered rows and appends the derived metric chain.
type Calculator struct {
	organicShare float64
	logger       *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithOrganicShare overrides the assumed organic share of new users, used by
// the CAC denominator. Values outside [0, 1) fall back to the default.
func WithOrganicShare(share float64) Option {
	return func(c *Calculator) {
		if share >= 0 && share < 1 {
			c.organicShare = share
		}
	}
}

// NewCalculator creates a metric calculator. A nil logger falls back to the
// default.
func NewCalculator(logger *slog.Logger, opts ...Option) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Calculator{organicShare: DefaultOrganicShare, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Derive computes the metric chain for rows sorted by entity then period.
// It keeps only the immediately preceding row per entity, so the first period
// of every entity has growth and retention undefined — expected, not an error.
// Rows with structurally absent core fields are retained with every dependent
// metric undefined; the output always has one row per input row.
func (c *Calculator) Derive(ctx context.Context, rows []domain.EntityPeriodRow) ([]domain.MetricRow, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewIntegrationError("derivation", "empty entity set", nil)
	}

	start := time.Now()
	out := make([]domain.MetricRow, 0, len(rows))

	var prev *domain.EntityPeriodRow
	for i := range rows {
		row := rows[i]
		if prev != nil && prev.Entity != row.Entity {
			prev = nil
		}

		mr := domain.MetricRow{EntityPeriodRow: row}
		if prev != nil {
			mr.PriorRevenue = prev.Revenue
			mr.PriorEndingUsers = prev.EndingUsers
		}

		mr.RevenueGrowth = deriveGrowth(row.Revenue, mr.PriorRevenue)
		mr.CAC = c.deriveCAC(row.MarketingSpend, row.NewUsers)
		mr.RetentionRate = deriveRetention(row.EndingUsers, row.NewUsers, mr.PriorEndingUsers)
		mr.GrossMargin = deriveGrossMargin(row.Revenue, row.Cost)
		mr.ARPU = deriveARPU(row.Revenue, row.PayingUsers)
		mr.LTV = deriveLTV(mr.ARPU, mr.GrossMargin, mr.RetentionRate)
		mr.LTVCACRatio = deriveLTVCAC(mr.LTV, mr.CAC)

		out = append(out, mr)
		prev = &rows[i]
	}

	c.logger.InfoContext(ctx, "derived metric chain",
		slog.Int("rows", len(out)),
		slog.Duration("duration", time.Since(start)))

	return out, nil
}

// deriveGrowth computes month-over-month revenue growth. Undefined when the
// prior month's revenue is absent or non-positive.
func deriveGrowth(revenue, prior domain.Value) domain.Value {
	if !revenue.Defined() || !prior.Defined() || prior.Float64 <= 0 {
		return domain.None()
	}
	return domain.Num((revenue.Float64 - prior.Float64) / prior.Float64)
}

// deriveCAC computes customer acquisition cost. The denominator is the
// estimated paid share of new users, floored at one so a month with only
// organic growth still yields a finite cost.
func (c *Calculator) deriveCAC(marketingSpend, newUsers domain.Value) domain.Value {
	if !marketingSpend.Defined() || !newUsers.Defined() {
		return domain.None()
	}
	paidNewUsers := math.Max(minPaidNewUsers, newUsers.Float64*(1-c.organicShare))
	return domain.Num(marketingSpend.Float64 / paidNewUsers)
}

// deriveRetention estimates the share of last month's users still active.
func deriveRetention(endingUsers, newUsers, priorEnding domain.Value) domain.Value {
	if !endingUsers.Defined() || !newUsers.Defined() {
		return domain.None()
	}
	if !priorEnding.Defined() || priorEnding.Float64 <= 0 {
		return domain.None()
	}
	r := (endingUsers.Float64 - newUsers.Float64) / priorEnding.Float64
	return domain.Num(r).Clamp(RetentionLower, RetentionUpper)
}

func deriveGrossMargin(revenue, cost domain.Value) domain.Value {
	if !revenue.Defined() || revenue.Float64 <= 0 || !cost.Defined() {
		return domain.None()
	}
	m := (revenue.Float64 - cost.Float64) / revenue.Float64
	return domain.Num(m).Clamp(GrossMarginLower, GrossMarginUpper)
}

func deriveARPU(revenue, payingUsers domain.Value) domain.Value {
	if !revenue.Defined() || !payingUsers.Defined() || payingUsers.Float64 <= 0 {
		return domain.None()
	}
	return domain.Num(revenue.Float64 / payingUsers.Float64)
}

// deriveLTV estimates lifetime value as ARPU x margin x expected lifetime in
// months, where the lifetime is 1/(1.1 - retention) with a floored churn.
func deriveLTV(arpu, margin, retention domain.Value) domain.Value {
	if !arpu.Defined() || !margin.Defined() || !retention.Defined() {
		return domain.None()
	}
	churn := math.Max(ChurnFloor, 1.1-retention.Float64)
	ltv := arpu.Float64 * margin.Float64 / churn
	return domain.Num(ltv).Clamp(LTVLower, LTVUpper)
}

func deriveLTVCAC(ltv, cac domain.Value) domain.Value {
	if !ltv.Defined() || !cac.Defined() || cac.Float64 <= 0 {
		return domain.None()
	}
	return domain.Num(ltv.Float64 / cac.Float64).Clamp(LTVCACLower, LTVCACUpper)
}
