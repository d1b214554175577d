package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBR renders a value with Brazilian separators: 1.234.567,89.
func FormatBR(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatPctBR renders a ratio as a percentage with one decimal: 41,7%.
func FormatPctBR(d decimal.Decimal) string {
	s := d.Mul(decimal.NewFromInt(100)).StringFixed(1)
	return strings.ReplaceAll(s, ".", ",") + "%"
}
