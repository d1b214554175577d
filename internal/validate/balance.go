package validate

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/model"
)

// BalanceSheetReport summarizes the three balance-sheet identities over
// the signed group totals. Sign conventions: assets positive,
// liabilities and equity negative, revenue negative, expenses positive.
type BalanceSheetReport struct {
	AssetTotal           decimal.Decimal `json:"ativo_total"`
	LiabilityEquityTotal decimal.Decimal `json:"passivo_pl_total"`
	Diff                 decimal.Decimal `json:"diferenca_bp"`
	PeriodResult         decimal.Decimal `json:"resultado_exercicio"`
	RevenueTotal         decimal.Decimal `json:"receita_total"`
	ExpenseTotal         decimal.Decimal `json:"despesa_total"`

	AssetDecompositionOK     bool `json:"ativo_decomposicao"`
	LiabilityDecompositionOK bool `json:"passivo_decomposicao"`
	BalanceSheetOK           bool `json:"bp_equilibrio"`
}

// BalanceSheet checks the patrimonial identities of a ledger:
//
//	1        = 1.01 + 1.02
//	2        = 2.01 + 2.02 + 2.03
//	1 + 2 + (3 + 4) = 0
//
// Accounts are looked up by exact code; a missing account contributes
// zero rather than failing, so partial charts still produce a report.
func BalanceSheet(rows []model.Row) BalanceSheetReport {
	balance := func(code string) decimal.Decimal {
		for _, r := range rows {
			if r.AccountCode == code {
				return r.CurrentBalance
			}
		}
		return decimal.Zero
	}

	asset := balance("1")
	liabilityEquity := balance("2")
	revenue := balance("3")
	expense := balance("4")

	assetSum := balance("1.01").Add(balance("1.02"))
	liabilitySum := balance("2.01").Add(balance("2.02")).Add(balance("2.03"))

	periodResult := revenue.Add(expense)
	diff := asset.Add(liabilityEquity).Add(periodResult)

	return BalanceSheetReport{
		AssetTotal:           asset.Round(2),
		LiabilityEquityTotal: liabilityEquity.Round(2),
		Diff:                 diff.Round(2),
		PeriodResult:         periodResult.Round(2),
		RevenueTotal:         revenue.Round(2),
		ExpenseTotal:         expense.Round(2),

		AssetDecompositionOK:     asset.Sub(assetSum).Abs().LessThanOrEqual(Tolerance),
		LiabilityDecompositionOK: liabilityEquity.Sub(liabilitySum).Abs().LessThanOrEqual(Tolerance),
		BalanceSheetOK:           diff.Abs().LessThanOrEqual(Tolerance),
	}
}
