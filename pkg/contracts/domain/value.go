package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a numeric observation that may be missing. Source fields use it for
// "absent" (never reported, or unparseable); derived metrics use it for
// "undefined" (guard condition failed). Both states are Valid == false, which
// keeps missing data distinct from a literal zero.
type Value struct {
	Float64 float64 `json:"value"`
	Valid   bool    `json:"valid"`
}

// Num returns a defined Value. NaN and Inf inputs collapse to None so an
// invalid float can never masquerade as a real observation.
func Num(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float64: f, Valid: true}
}

// None returns the missing/undefined sentinel.
func None() Value {
	return Value{}
}

// ParseValue coerces a raw cell string to a Value. Thousand separators and
// surrounding whitespace are tolerated; anything else unparseable is None.
func ParseValue(s string) Value {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return None()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None()
	}
	return Num(f)
}

// Defined reports whether the value carries a real observation.
func (v Value) Defined() bool {
	return v.Valid
}

// Or returns the contained float, or fallback when the value is missing.
func (v Value) Or(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Float64
}

// Clamp bounds a defined value into [lo, hi]. Missing values pass through.
func (v Value) Clamp(lo, hi float64) Value {
	if !v.Valid {
		return v
	}
	if v.Float64 < lo {
		return Num(lo)
	}
	if v.Float64 > hi {
		return Num(hi)
	}
	return v
}

// MarshalJSON encodes a missing value as null so downstream consumers never
// see a placeholder zero.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

// UnmarshalJSON accepts either null or a number.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Num(f)
	return nil
}
