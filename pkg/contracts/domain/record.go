package domain

import (
	"fmt"
	"strings"
)

// RecordKind identifies which vocabulary a raw record's fields belong to.
type RecordKind string

const (
	KindFinancial   RecordKind = "financial"
	KindOperational RecordKind = "operational"
)

// ParseRecordKind maps a file-name token to a RecordKind. The original branch
// workbooks use Chinese tokens, so both spellings are accepted.
func ParseRecordKind(s string) (RecordKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "financial", "fin", "财务":
		return KindFinancial, nil
	case "operational", "ops", "业务":
		return KindOperational, nil
	default:
		return "", fmt.Errorf("unknown record kind %q", s)
	}
}

// Canonical financial field names. One workbook row label maps to each.
const (
	FieldRevenue        = "revenue"
	FieldCost           = "cost"
	FieldMarketingSpend = "marketing_spend"
	FieldRnDSpend       = "rnd_spend"
	FieldAdminSpend     = "admin_spend"
)

// Canonical operational field names.
const (
	FieldStartingUsers = "starting_users"
	FieldEndingUsers   = "ending_users"
	FieldNewUsers      = "new_users"
	FieldTotalOrders   = "total_orders"
	FieldPayingUsers   = "paying_users"
)

// FinancialFields is the fixed vocabulary for KindFinancial records.
var FinancialFields = []string{
	FieldRevenue,
	FieldCost,
	FieldMarketingSpend,
	FieldRnDSpend,
	FieldAdminSpend,
}

// OperationalFields is the fixed vocabulary for KindOperational records.
var OperationalFields = []string{
	FieldStartingUsers,
	FieldEndingUsers,
	FieldNewUsers,
	FieldTotalOrders,
	FieldPayingUsers,
}

// Vocabulary returns the field vocabulary for the kind.
func (k RecordKind) Vocabulary() []string {
	if k == KindFinancial {
		return FinancialFields
	}
	return OperationalFields
}

// Allows reports whether the field name belongs to the kind's vocabulary.
func (k RecordKind) Allows(field string) bool {
	for _, f := range k.Vocabulary() {
		if f == field {
			return true
		}
	}
	return false
}

// RawRecord is one (entity, period, kind) observation set as read from a
// single source sheet. Records are transient: the integrator consumes them
// once and they are never referenced again.
type RawRecord struct {
	Entity string           `json:"entity" validate:"required"`
	Period Period           `json:"period"`
	Kind   RecordKind       `json:"kind" validate:"required,oneof=financial operational"`
	Fields map[string]Value `json:"fields"`
}
