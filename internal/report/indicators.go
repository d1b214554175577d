// Package report turns evaluated statements into the consumable
// surfaces: indicator JSON for the dashboard, a styled spreadsheet
// download and an HTML report with optional PDF conversion.
package report

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/period"
	"github.com/cleared-dev/balancete/internal/workbook"
)

// Indicators summarizes the DRE into the headline figures and margins.
type Indicators struct {
	Year     string          `json:"year"`
	Periods  []period.Period `json:"periodos"`
	Absolute Absolute        `json:"absolute"`
	Margins  Margins         `json:"margins"`
}

// Absolute holds annual totals from the DRE.
type Absolute struct {
	GrossRevenue decimal.Decimal `json:"receita_bruta"`
	NetRevenue   decimal.Decimal `json:"receita_liquida"`
	GrossProfit  decimal.Decimal `json:"lucro_bruto"`
	EBITDA       decimal.Decimal `json:"ebitda"`
	EBIT         decimal.Decimal `json:"lucro_operacional"`
	NetIncome    decimal.Decimal `json:"lucro_liquido"`
}

// Margins holds percentages over net revenue, rounded to two places.
type Margins struct {
	Gross     decimal.Decimal `json:"margem_bruta"`
	EBITDA    decimal.Decimal `json:"margem_ebitda"`
	Operating decimal.Decimal `json:"margem_operacional"`
	Net       decimal.Decimal `json:"margem_liquida"`
}

// ComputeIndicators reads the headline rows off an evaluated DRE.
func ComputeIndicators(dre workbook.Statement) Indicators {
	ind := Indicators{Periods: dre.Periods}
	if n := len(dre.Periods); n > 0 {
		ind.Year = strconv.Itoa(dre.Periods[n-1].Year())
	}

	ind.Absolute = Absolute{
		GrossRevenue: dre.Total(workbook.DRERowGrossRevenue),
		NetRevenue:   dre.Total(workbook.DRERowNetRevenue),
		GrossProfit:  dre.Total(workbook.DRERowGrossProfit),
		EBITDA:       dre.Total(workbook.DRERowEBITDA),
		EBIT:         dre.Total(workbook.DRERowEBIT),
		NetIncome:    dre.Total(workbook.DRERowNetIncome),
	}

	net := ind.Absolute.NetRevenue
	ind.Margins = Margins{
		Gross:     marginPct(ind.Absolute.GrossProfit, net),
		EBITDA:    marginPct(ind.Absolute.EBITDA, net),
		Operating: marginPct(ind.Absolute.EBIT, net),
		Net:       marginPct(ind.Absolute.NetIncome, net),
	}
	return ind
}

func marginPct(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Decimal{}
	}
	return num.Div(den).Mul(decimal.NewFromInt(100)).Round(2)
}

// Summary is the dashboard overview of what has been ingested.
type Summary struct {
	Company  string          `json:"empresa"`
	Periods  []period.Period `json:"periods"`
	Years    []string        `json:"years"`
	Rows     int             `json:"total_rows"`
	Accounts int             `json:"contas"`
	Pending  int             `json:"classificacoes_pendentes"`
}

// Summarize assembles the overview. The pending count comes from the
// classification table, everything else from the stored rows.
func Summarize(company string, periods []period.Period, rows []model.Row, pending int) Summary {
	accounts := make(map[string]struct{})
	for _, r := range rows {
		accounts[r.AccountCode] = struct{}{}
	}

	var years []string
	seen := make(map[int]struct{})
	for _, p := range periods {
		if _, ok := seen[p.Year()]; ok {
			continue
		}
		seen[p.Year()] = struct{}{}
		years = append(years, strconv.Itoa(p.Year()))
	}

	return Summary{
		Company:  company,
		Periods:  periods,
		Years:    years,
		Rows:     len(rows),
		Accounts: len(accounts),
		Pending:  pending,
	}
}
