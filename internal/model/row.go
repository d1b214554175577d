package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/period"
)

// Row is one account line of a parsed balancete, in source file order.
type Row struct {
	AccountCode    string          `json:"codigo_conta"`
	Title          string          `json:"titulo_conta"`
	Reduced        int             `json:"red,omitempty"` // 0 = absent
	Level          int             `json:"nivel"`
	Type           NodeType        `json:"tipo"`
	Group          Group           `json:"grupo"`
	GroupNumber    int             `json:"grupo_num"`
	PriorBalance   decimal.Decimal `json:"saldo_anterior"`
	Debits         decimal.Decimal `json:"debitos"`  // unsigned magnitude
	Credits        decimal.Decimal `json:"creditos"` // unsigned magnitude
	CurrentBalance decimal.Decimal `json:"saldo_atual"`
	Indicator      Indicator       `json:"indicador_dc"`
	Period         period.Period   `json:"periodo"`

	// Classification is assigned by the depara step, after parsing.
	Classification string `json:"classificacao,omitempty"`
}

// IsChildOf reports whether the row's code sits anywhere under parent's
// code in the dot hierarchy.
func (r Row) IsChildOf(parent string) bool {
	return strings.HasPrefix(r.AccountCode, parent+".")
}

// Level of an account code is its number of dot-separated segments.
// "1" -> 1, "1.01" -> 2, "1.01.01.02.00004" -> 5. Empty code -> 0.
func CodeLevel(code string) int {
	if code == "" {
		return 0
	}
	return len(strings.Split(code, "."))
}
