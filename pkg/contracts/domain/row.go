package domain

// EntityPeriodRow is the canonical merged record: one per unique
// (entity, period) pair, carrying every field from both vocabularies.
// Fields absent from the source stay None, never zero.
type EntityPeriodRow struct {
	Entity string `json:"entity"`
	Period Period `json:"period"`

	Revenue        Value `json:"revenue"`
	Cost           Value `json:"cost"`
	MarketingSpend Value `json:"marketing_spend"`
	RnDSpend       Value `json:"rnd_spend"`
	AdminSpend     Value `json:"admin_spend"`

	StartingUsers Value `json:"starting_users"`
	EndingUsers   Value `json:"ending_users"`
	NewUsers      Value `json:"new_users"`
	TotalOrders   Value `json:"total_orders"`
	PayingUsers   Value `json:"paying_users"`
}

// Field returns the named canonical field.
func (r *EntityPeriodRow) Field(name string) Value {
	switch name {
	case FieldRevenue:
		return r.Revenue
	case FieldCost:
		return r.Cost
	case FieldMarketingSpend:
		return r.MarketingSpend
	case FieldRnDSpend:
		return r.RnDSpend
	case FieldAdminSpend:
		return r.AdminSpend
	case FieldStartingUsers:
		return r.StartingUsers
	case FieldEndingUsers:
		return r.EndingUsers
	case FieldNewUsers:
		return r.NewUsers
	case FieldTotalOrders:
		return r.TotalOrders
	case FieldPayingUsers:
		return r.PayingUsers
	}
	return None()
}

// SetField assigns the named canonical field. Unknown names are ignored; the
// integrator projects through the vocabularies before calling this.
func (r *EntityPeriodRow) SetField(name string, v Value) {
	switch name {
	case FieldRevenue:
		r.Revenue = v
	case FieldCost:
		r.Cost = v
	case FieldMarketingSpend:
		r.MarketingSpend = v
	case FieldRnDSpend:
		r.RnDSpend = v
	case FieldAdminSpend:
		r.AdminSpend = v
	case FieldStartingUsers:
		r.StartingUsers = v
	case FieldEndingUsers:
		r.EndingUsers = v
	case FieldNewUsers:
		r.NewUsers = v
	case FieldTotalOrders:
		r.TotalOrders = v
	case FieldPayingUsers:
		r.PayingUsers = v
	}
}

// MetricRow extends the canonical row with the derived KPI chain. Every
// derived field is either a finite defined Value or None; NaN/Inf never leak.
type MetricRow struct {
	EntityPeriodRow

	PriorRevenue     Value `json:"prior_revenue"`
	RevenueGrowth    Value `json:"revenue_growth"`
	CAC              Value `json:"cac"`
	PriorEndingUsers Value `json:"prior_ending_users"`
	RetentionRate    Value `json:"retention_rate"`
	GrossMargin      Value `json:"gross_margin"`
	ARPU             Value `json:"arpu"`
	LTV              Value `json:"ltv"`
	LTVCACRatio      Value `json:"ltv_cac_ratio"`
}

// Rating is the categorical health grade derived from the score.
type Rating string

const (
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
)

// Describe returns the rating with its descriptor, as printed in reports.
func (r Rating) Describe() string {
	switch r {
	case RatingA:
		return "A [excellent]"
	case RatingB:
		return "B [good]"
	case RatingC:
		return "C [passing]"
	case RatingD:
		return "D [at risk]"
	}
	return string(r)
}

// ScoredRow extends a MetricRow with its health score and rating. The rating
// is a deterministic, monotone function of the score.
type ScoredRow struct {
	MetricRow

	Score  int    `json:"score" validate:"min=0,max=10"`
	Rating Rating `json:"rating" validate:"required,oneof=A B C D"`
}
