package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders a currency string: $1,234.56 or ($1,234.56) for negatives.
func Format(d decimal.Decimal) string {
	rounded := Round(d)
	if rounded.IsNegative() {
		return "($" + groupThousands(rounded.Abs().StringFixed(2)) + ")"
	}
	return "$" + groupThousands(rounded.StringFixed(2))
}

func groupThousands(fixed string) string {
	whole, frac, _ := strings.Cut(fixed, ".")
	if len(whole) <= 3 {
		return fixed
	}

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
