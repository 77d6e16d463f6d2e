package reader

import (
	"strings"

	"branchcli/pkg/contracts/domain"
)

// labelAliases maps workbook row labels to canonical field names. The branch
// workbooks historically carry Chinese labels; English spellings are accepted
// for newer templates.
var labelAliases = map[string]string{
	// Financial sheet labels.
	"营业收入":            domain.FieldRevenue,
	"营业成本":            domain.FieldCost,
	"市场费用":            domain.FieldMarketingSpend,
	"研发费用":            domain.FieldRnDSpend,
	"管理费用":            domain.FieldAdminSpend,
	"revenue":         domain.FieldRevenue,
	"cost":            domain.FieldCost,
	"marketing spend": domain.FieldMarketingSpend,
	"r&d spend":       domain.FieldRnDSpend,
	"rnd spend":       domain.FieldRnDSpend,
	"admin spend":     domain.FieldAdminSpend,

	// Operational sheet labels.
	"月初用户数":          domain.FieldStartingUsers,
	"月末用户数":          domain.FieldEndingUsers,
	"新增用户数":          domain.FieldNewUsers,
	"总订单数":           domain.FieldTotalOrders,
	"付费用户数":          domain.FieldPayingUsers,
	"starting users": domain.FieldStartingUsers,
	"ending users":   domain.FieldEndingUsers,
	"new users":      domain.FieldNewUsers,
	"total orders":   domain.FieldTotalOrders,
	"paying users":   domain.FieldPayingUsers,
}

// canonicalField normalizes a sheet row label to its canonical field name.
func canonicalField(label string) (string, bool) {
	name, ok := labelAliases[strings.ToLower(strings.TrimSpace(label))]
	return name, ok
}
