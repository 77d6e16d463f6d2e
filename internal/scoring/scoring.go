// Package scoring turns the two guarded headline metrics — revenue growth and
// the LTV/CAC ratio — into an integer health score and a categorical rating.
package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "branchcli/internal/errors"
	"branchcli/pkg/contracts/domain"
)

// Points awarded per metric tier. An undefined metric contributes nothing;
// a defined metric always earns at least the floor point, so "no signal" and
// "bad signal" stay distinguishable in the total.
const (
	PointsHigh  = 5
	PointsMid   = 3
	PointsFloor = 1
)

// Rating breakpoints over the 0..10 total score.
const (
	RatingABreakpoint = 8
	RatingBBreakpoint = 5
	RatingCBreakpoint = 3
)

// Thresholds is one metric's scoring knob pair. High must exceed Mid.
type Thresholds struct {
	High float64 `yaml:"high" json:"high" validate:"gt=0"`
	Mid  float64 `yaml:"mid" json:"mid" validate:"gt=0"`
}

// Rules is the entire tunable surface of the scoring engine.
type Rules struct {
	Growth Thresholds `yaml:"growth" json:"growth" validate:"required"`
	LTVCAC Thresholds `yaml:"ltv_cac" json:"ltv_cac" validate:"required"`
}

// DefaultRules returns the stock thresholds: growth above 15% (high) / 5%
// (mid), LTV/CAC above 3 (high) / 1 (mid).
func DefaultRules() Rules {
	return Rules{
		Growth: Thresholds{High: 0.15, Mid: 0.05},
		LTVCAC: Thresholds{High: 3, Mid: 1},
	}
}

var validate = validator.New()

// Validate rejects non-positive thresholds and inverted pairs before the
// engine runs; a violated High > Mid contract would silently collapse tiers.
func (r Rules) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperrors.NewConfigurationError("scoring", "invalid score rules", err)
	}
	if r.Growth.High <= r.Growth.Mid {
		return apperrors.NewConfigurationError("scoring", "growth thresholds inverted",
			fmt.Errorf("high %.4f must exceed mid %.4f", r.Growth.High, r.Growth.Mid))
	}
	if r.LTVCAC.High <= r.LTVCAC.Mid {
		return apperrors.NewConfigurationError("scoring", "ltv/cac thresholds inverted",
			fmt.Errorf("high %.4f must exceed mid %.4f", r.LTVCAC.High, r.LTVCAC.Mid))
	}
	return nil
}

// points grades one metric against its threshold pair.
func points(v domain.Value, t Thresholds) int {
	if !v.Defined() {
		return 0
	}
	switch {
	case v.Float64 > t.High:
		return PointsHigh
	case v.Float64 > t.Mid:
		return PointsMid
	default:
		return PointsFloor
	}
}

// rate maps a total score to its rating. Monotone by construction.
func rate(score int) domain.Rating {
	switch {
	case score >= RatingABreakpoint:
		return domain.RatingA
	case score >= RatingBBreakpoint:
		return domain.RatingB
	case score >= RatingCBreakpoint:
		return domain.RatingC
	default:
		return domain.RatingD
	}
}

// Score grades every metric row. Pure: no side effects, no errors — an
// undefined metric is a valid classification input, and an all-undefined row
// scores 0 and rates D rather than being dropped.
func Score(rows []domain.MetricRow, rules Rules) []domain.ScoredRow {
	out := make([]domain.ScoredRow, 0, len(rows))
	for _, mr := range rows {
		total := points(mr.RevenueGrowth, rules.Growth) + points(mr.LTVCACRatio, rules.LTVCAC)
		out = append(out, domain.ScoredRow{
			MetricRow: mr,
			Score:     total,
			Rating:    rate(total),
		})
	}
	return out
}
