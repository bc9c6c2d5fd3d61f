// Package amount turns the many textual money formats found in bank exports into signed decimals.
package amount

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the exponent accepted from text; "1e300000000" is malformed, not huge.
const maxExponent = 28

// Normalize parses a textual amount such as "$1,234.56", "(42.00)" or " -7 ".
// Parentheses mark a negative value. Anything unparseable yields zero.
func Normalize(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "", "\t", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}

	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero
	}
	return d
}

// NormalizeValue accepts an already-typed value from a decoded row.
// Numbers pass through, strings go through Normalize, everything else is zero.
func NormalizeValue(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case string:
		return Normalize(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case float32:
		return NormalizeValue(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	default:
		return decimal.Zero
	}
}
