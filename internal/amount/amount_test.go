package amount

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "123.45", want: "123.45"},
		{name: "negative", raw: "-123.45", want: "-123.45"},
		{name: "currency symbol", raw: "$99.10", want: "99.1"},
		{name: "thousands separators", raw: "$1,234,567.89", want: "1234567.89"},
		{name: "parenthesized negative", raw: "(123.45)", want: "-123.45"},
		{name: "parenthesized with symbol", raw: "($1,000.00)", want: "-1000"},
		{name: "surrounding whitespace", raw: "  42  ", want: "42"},
		{name: "inner space", raw: "$ 1 200", want: "1200"},
		{name: "empty", raw: "", want: "0"},
		{name: "garbage", raw: "n/a", want: "0"},
		{name: "unbalanced parens", raw: "(12.00", want: "0"},
		{name: "scientific notation", raw: "1e3", want: "1000"},
		{name: "small exponent", raw: "2.5e-2", want: "0.025"},
		{name: "huge positive exponent", raw: "1e300000000", want: "0"},
		{name: "huge negative exponent", raw: "1e-300000000", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "Normalize(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestNormalize_HugeExponentStaysPrintable(t *testing.T) {
	for _, raw := range []string{"1e300000000", "-4E2000000000", "(1e-300000000)"} {
		got := Normalize(raw)
		assert.Equal(t, "0.00", got.StringFixed(2), "Normalize(%q)", raw)
		assert.Equal(t, "$0.00", Format(got))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"$1,234.56", "(9.99)", "-0.01", "abc", "", "1e3", "  (0) "}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.String())
		assert.True(t, once.Equal(twice), "normalize not idempotent for %q: %s then %s", in, once, twice)
	}
}

func TestNormalizeValue(t *testing.T) {
	d := decimal.RequireFromString("5.25")

	tests := []struct {
		in   any
		name string
		want string
	}{
		{name: "nil", in: nil, want: "0"},
		{name: "float", in: 12.5, want: "12.5"},
		{name: "float32", in: float32(2.5), want: "2.5"},
		{name: "int", in: -7, want: "-7"},
		{name: "int64", in: int64(100), want: "100"},
		{name: "decimal", in: d, want: "5.25"},
		{name: "decimal pointer", in: &d, want: "5.25"},
		{name: "string", in: "(3.00)", want: "-3"},
		{name: "NaN", in: math.NaN(), want: "0"},
		{name: "unsupported", in: []int{1}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$0.00"},
		{in: "123.45", want: "$123.45"},
		{in: "-123.45", want: "($123.45)"},
		{in: "1234567.891", want: "$1,234,567.89"},
		{in: "-1000", want: "($1,000.00)"},
		{in: "999.999", want: "$1,000.00"},
		{in: "-0.001", want: "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)))
		})
	}
}
