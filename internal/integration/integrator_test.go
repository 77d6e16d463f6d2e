package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "branchcli/internal/errors"
	"branchcli/pkg/contracts/domain"
)

func financialRecord(entity string, period domain.Period, fields map[string]domain.Value) domain.RawRecord {
	return domain.RawRecord{Entity: entity, Period: period, Kind: domain.KindFinancial, Fields: fields}
}

func operationalRecord(entity string, period domain.Period, fields map[string]domain.Value) domain.RawRecord {
	return domain.RawRecord{Entity: entity, Period: period, Kind: domain.KindOperational, Fields: fields}
}

func TestIntegrateEmptyInput(t *testing.T) {
	in := NewIntegrator(nil)

	_, err := in.Integrate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIntegration)

	_, err = in.Integrate([]domain.RawRecord{})
	assert.ErrorIs(t, err, apperrors.ErrIntegration)
}

func TestIntegrateOuterJoin(t *testing.T) {
	in := NewIntegrator(nil)

	records := []domain.RawRecord{
		financialRecord("branch-a", 202307, map[string]domain.Value{
			domain.FieldRevenue: domain.Num(100000),
			domain.FieldCost:    domain.Num(40000),
		}),
		operationalRecord("branch-a", 202307, map[string]domain.Value{
			domain.FieldEndingUsers: domain.Num(60000),
			domain.FieldNewUsers:    domain.Num(10000),
		}),
		// Financial side only for August: operational fields must stay absent.
		financialRecord("branch-a", 202308, map[string]domain.Value{
			domain.FieldRevenue: domain.Num(120000),
		}),
	}

	rows, err := in.Integrate(records)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	july := rows[0]
	assert.Equal(t, domain.Period(202307), july.Period)
	assert.Equal(t, 100000.0, july.Revenue.Float64)
	assert.Equal(t, 60000.0, july.EndingUsers.Float64)
	assert.False(t, july.MarketingSpend.Defined(), "unsupplied field stays absent")

	august := rows[1]
	assert.Equal(t, 120000.0, august.Revenue.Float64)
	assert.False(t, august.EndingUsers.Defined(), "missing operational side stays absent, not zero")
	assert.False(t, august.NewUsers.Defined())
}

func TestIntegrateDropsOutOfVocabularyFields(t *testing.T) {
	in := NewIntegrator(nil)

	rows, err := in.Integrate([]domain.RawRecord{
		financialRecord("branch-a", 202307, map[string]domain.Value{
			domain.FieldRevenue:  domain.Num(100000),
			domain.FieldNewUsers: domain.Num(10000), // operational field on a financial record
			"surprise_field":     domain.Num(1),
		}),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 100000.0, rows[0].Revenue.Float64)
	assert.False(t, rows[0].NewUsers.Defined(), "cross-kind field is dropped")
}

func TestIntegrateDuplicateFieldLevelMerge(t *testing.T) {
	in := NewIntegrator(nil)

	rows, err := in.Integrate([]domain.RawRecord{
		financialRecord("branch-a", 202307, map[string]domain.Value{
			domain.FieldRevenue:        domain.Num(100000),
			domain.FieldCost:           domain.Num(40000),
			domain.FieldMarketingSpend: domain.Num(20000),
		}),
		// Restatement supplies only revenue; cost and marketing must survive.
		financialRecord("branch-a", 202307, map[string]domain.Value{
			domain.FieldRevenue: domain.Num(110000),
			domain.FieldCost:    domain.None(),
		}),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1, "exactly one row per (entity, period)")

	row := rows[0]
	assert.Equal(t, 110000.0, row.Revenue.Float64, "later record wins the fields it defines")
	assert.Equal(t, 40000.0, row.Cost.Float64, "absent in the later record keeps the earlier value")
	assert.Equal(t, 20000.0, row.MarketingSpend.Float64, "unmentioned field keeps the earlier value")
}

func TestIntegrateSortedByEntityThenPeriod(t *testing.T) {
	in := NewIntegrator(nil)

	rows, err := in.Integrate([]domain.RawRecord{
		financialRecord("branch-b", 202308, map[string]domain.Value{domain.FieldRevenue: domain.Num(1)}),
		financialRecord("branch-a", 202309, map[string]domain.Value{domain.FieldRevenue: domain.Num(2)}),
		financialRecord("branch-b", 202307, map[string]domain.Value{domain.FieldRevenue: domain.Num(3)}),
		financialRecord("branch-a", 202307, map[string]domain.Value{domain.FieldRevenue: domain.Num(4)}),
	})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	got := make([][2]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, [2]string{r.Entity, r.Period.String()})
	}
	assert.Equal(t, [][2]string{
		{"branch-a", "202307"},
		{"branch-a", "202309"},
		{"branch-b", "202307"},
		{"branch-b", "202308"},
	}, got)
}

func TestIntegrateIdempotent(t *testing.T) {
	in := NewIntegrator(nil)

	records := []domain.RawRecord{
		financialRecord("branch-a", 202307, map[string]domain.Value{domain.FieldRevenue: domain.Num(100000)}),
		operationalRecord("branch-a", 202307, map[string]domain.Value{domain.FieldNewUsers: domain.Num(10000)}),
		financialRecord("branch-b", 202307, map[string]domain.Value{domain.FieldRevenue: domain.Num(50000)}),
	}

	first, err := in.Integrate(records)
	require.NoError(t, err)
	second, err := in.Integrate(records)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIntegrateCompleteness(t *testing.T) {
	in := NewIntegrator(nil)

	records := []domain.RawRecord{
		financialRecord("a", 202307, map[string]domain.Value{}),
		operationalRecord("a", 202307, map[string]domain.Value{}),
		financialRecord("a", 202308, nil),
		operationalRecord("b", 202307, map[string]domain.Value{domain.FieldNewUsers: domain.Num(5)}),
	}

	rows, err := in.Integrate(records)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, r := range rows {
		seen[r.Entity+"/"+r.Period.String()] = true
	}
	assert.Len(t, rows, 3)
	assert.True(t, seen["a/202307"])
	assert.True(t, seen["a/202308"])
	assert.True(t, seen["b/202307"])
}
