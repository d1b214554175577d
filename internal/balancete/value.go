// Package balancete parses Hinova-style trial-balance exports: a 3-row
// preamble followed by 7-column account rows terminated by a grand-total
// sentinel. Amounts use Brazilian separators with a trailing D/C tag
// ("1.234.567,89D"); parsing degrades malformed cells to safe defaults
// and reserves hard failures for structural problems.
package balancete

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/sheet"
)

// nonAmount matches every rune that cannot appear in a normalized amount.
var nonAmount = regexp.MustCompile(`[^0-9.\-]`)

// ParseAmount converts a raw cell in the Brazilian amount convention to
// an unsigned magnitude and its debit/credit indicator. Malformed text
// yields (0, none) rather than an error: one noisy cell must not abort
// the file. Native numeric cells bypass the string logic entirely.
func ParseAmount(c sheet.Cell) (decimal.Decimal, model.Indicator) {
	switch c.Kind {
	case sheet.KindEmpty:
		return decimal.Zero, model.IndicatorNone
	case sheet.KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.Zero, model.IndicatorNone
		}
		return decimal.NewFromFloat(c.Number), model.IndicatorNone
	}
	return parseAmountText(c.Text)
}

func parseAmountText(raw string) (decimal.Decimal, model.Indicator) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, model.IndicatorNone
	}

	ind := model.IndicatorNone
	switch s[len(s)-1] {
	case 'D', 'd':
		ind = model.IndicatorDebit
		s = strings.TrimSpace(s[:len(s)-1])
	case 'C', 'c':
		ind = model.IndicatorCredit
		s = strings.TrimSpace(s[:len(s)-1])
	}

	// "1.234.567,89" -> "1234567.89"
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = nonAmount.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero, model.IndicatorNone
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, model.IndicatorNone
	}
	return d, ind
}

// ApplySign resolves a magnitude and indicator into a signed balance.
// The convention is uniform across all four groups: D is positive, C is
// negative, no indicator means a zero balance. The group number is a
// caller contract; anything outside 1..4 is fatal.
func ApplySign(magnitude decimal.Decimal, ind model.Indicator, group int) (decimal.Decimal, error) {
	if ind == model.IndicatorNone {
		return decimal.Zero, nil
	}
	if group < 1 || group > 4 {
		return decimal.Decimal{}, &InvalidGroupError{Group: group}
	}
	if ind == model.IndicatorDebit {
		return magnitude.Abs(), nil
	}
	return magnitude.Abs().Neg(), nil
}
