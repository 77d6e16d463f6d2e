package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNum(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		valid bool
	}{
		{"regular value", 42.5, true},
		{"zero is a real observation", 0, true},
		{"negative value", -10, true},
		{"NaN collapses to missing", math.NaN(), false},
		{"positive Inf collapses to missing", math.Inf(1), false},
		{"negative Inf collapses to missing", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Num(tt.input)
			assert.Equal(t, tt.valid, v.Defined())
			if tt.valid {
				assert.Equal(t, tt.input, v.Float64)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		valid    bool
		expected float64
	}{
		{"plain number", "100000", true, 100000},
		{"decimal", "0.25", true, 0.25},
		{"thousand separators", "1,250,000", true, 1250000},
		{"surrounding whitespace", "  42 ", true, 42},
		{"empty cell", "", false, 0},
		{"whitespace only", "   ", false, 0},
		{"text cell", "n/a", false, 0},
		{"mixed text", "12abc", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseValue(tt.input)
			assert.Equal(t, tt.valid, v.Defined())
			if tt.valid {
				assert.Equal(t, tt.expected, v.Float64)
			}
		})
	}
}

func TestValueClamp(t *testing.T) {
	assert.Equal(t, 0.85, Num(0.93).Clamp(0.20, 0.85).Float64)
	assert.Equal(t, 0.20, Num(0.05).Clamp(0.20, 0.85).Float64)
	assert.Equal(t, 0.60, Num(0.60).Clamp(0.20, 0.85).Float64)
	assert.False(t, None().Clamp(0.20, 0.85).Defined(), "missing passes through clamp")
}

func TestValueOr(t *testing.T) {
	assert.Equal(t, 7.0, Num(7).Or(99))
	assert.Equal(t, 99.0, None().Or(99))
}

func TestValueJSON(t *testing.T) {
	t.Run("missing encodes as null", func(t *testing.T) {
		data, err := json.Marshal(None())
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("defined round-trips", func(t *testing.T) {
		data, err := json.Marshal(Num(3.5))
		require.NoError(t, err)
		assert.Equal(t, "3.5", string(data))

		var v Value
		require.NoError(t, json.Unmarshal(data, &v))
		assert.True(t, v.Defined())
		assert.Equal(t, 3.5, v.Float64)
	})

	t.Run("null decodes to missing", func(t *testing.T) {
		var v Value
		require.NoError(t, json.Unmarshal([]byte("null"), &v))
		assert.False(t, v.Defined())
	})
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Period
		wantErr bool
	}{
		{"valid period", "202307", Period(202307), false},
		{"december", "202312", Period(202312), false},
		{"month out of range", "202313", 0, true},
		{"too short", "2023", 0, true},
		{"not numeric", "abcdef", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
			assert.True(t, p.Valid())
		})
	}
}

func TestPeriodFormats(t *testing.T) {
	p := Period(202307)
	assert.Equal(t, "202307", p.String())
	assert.Equal(t, "2023-07", p.Label())
	assert.Equal(t, 2023, p.Time().Year())
	assert.Equal(t, "July", p.Time().Month().String())
}

func TestParseRecordKind(t *testing.T) {
	tests := []struct {
		input   string
		want    RecordKind
		wantErr bool
	}{
		{"financial", KindFinancial, false},
		{"fin", KindFinancial, false},
		{"财务", KindFinancial, false},
		{"operational", KindOperational, false},
		{"ops", KindOperational, false},
		{"业务", KindOperational, false},
		{"OPERATIONAL", KindOperational, false},
		{"budget", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k, err := ParseRecordKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestVocabulary(t *testing.T) {
	assert.Len(t, FinancialFields, 5)
	assert.Len(t, OperationalFields, 5)
	assert.True(t, KindFinancial.Allows(FieldRevenue))
	assert.False(t, KindFinancial.Allows(FieldNewUsers))
	assert.True(t, KindOperational.Allows(FieldNewUsers))
	assert.False(t, KindOperational.Allows("random_field"))
}

func TestRowFieldAccess(t *testing.T) {
	var row EntityPeriodRow
	row.SetField(FieldRevenue, Num(100000))
	row.SetField(FieldPayingUsers, Num(1500))
	row.SetField("unknown_field", Num(1)) // ignored

	assert.Equal(t, 100000.0, row.Field(FieldRevenue).Float64)
	assert.Equal(t, 1500.0, row.Field(FieldPayingUsers).Float64)
	assert.False(t, row.Field(FieldCost).Defined())
	assert.False(t, row.Field("unknown_field").Defined())
}

func TestRatingDescribe(t *testing.T) {
	assert.Equal(t, "A [excellent]", RatingA.Describe())
	assert.Equal(t, "D [at risk]", RatingD.Describe())
}
