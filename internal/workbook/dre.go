package workbook

import (
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/period"
)

// DRE rows referenced from other tabs and by indicator reports.
const (
	DRERowGrossRevenue = 2
	DRERowNetRevenue   = 11
	DRERowGrossProfit  = 17
	DRERowDepreciation = 21
	DRERowEBITDA       = 28
	DRERowEBIT         = 30
	DRERowNetIncome    = 42
)

// dreLines lays out the income statement, rows 2 through 47. Balances
// in the base tab are cumulative and credit-negative, so every month
// column shows the negated movement: -(current - previous). With that
// sign flip revenue reads positive and expenses negative, and every
// subtotal is a plain sum of its parts.
var dreLines = []stmtLine{
	{label: "Receita Bruta", kind: lineSubtotal, children: []int{3, 4}, bold: true},                  // 2
	{label: "  (+) Receita de Serviços", kind: lineSumifs, classification: "(+) Receita de Serviços"}, // 3
	{label: "  (+) Outras Receitas", kind: lineSumifs, classification: "(+) Outras Receitas"},         // 4
	{label: "(-) Deduções da Receita", kind: lineSubtotal, children: []int{6, 7, 8, 9, 10}, bold: true}, // 5
	{label: "  (-) ISS", kind: lineSumifs, classification: "(-) ISS"},                                 // 6
	{label: "  (-) PIS", kind: lineSumifs, classification: "(-) PIS"},                                 // 7
	{label: "  (-) COFINS", kind: lineSumifs, classification: "(-) COFINS"},                           // 8
	{label: "  (-) Descontos e Devoluções", kind: lineSumifs, classification: "(-) Descontos e Devoluções"}, // 9
	{label: "  (-) Demais Deduções", kind: lineSumifs, classification: "(-) Deduções da Receita"},     // 10
	{label: "= Receita Líquida", kind: lineFormula, template: "{c}2+{c}5", bold: true},                // 11
	{kind: lineBlank}, // 12
	{label: "(-) Custos dos Serviços", kind: lineSubtotal, children: []int{14, 15, 16}, bold: true}, // 13
	{label: "  (-) CSP", kind: lineSumifs, classification: "(-) CSP"},                               // 14
	{label: "  (-) Servidor/Cloud", kind: lineSumifs, classification: "(-) Servidor/Cloud"},         // 15
	{label: "  (-) Software", kind: lineSumifs, classification: "(-) Software"},                     // 16
	{label: "= Lucro Bruto", kind: lineFormula, template: "{c}11+{c}13", bold: true},                // 17
	{kind: lineBlank}, // 18
	{label: "(-) Equipe", kind: lineSumifs, classification: "(-) Equipe"},                             // 19
	{label: "(-) Ocupação", kind: lineSumifs, classification: "(-) Ocupação"},                         // 20
	{label: "(-) D&A", kind: lineSumifs, classification: "(-) D&A"},                                   // 21
	{label: "(-) Despesas Comerciais", kind: lineSumifs, classification: "(-) Despesas Comerciais"},   // 22
	{label: "(-) Equipe de Originação", kind: lineSumifs, classification: "(-) Equipe de Originação"}, // 23
	{label: "(-) Despesas de Marketing", kind: lineSumifs, classification: "(-) Despesas de Marketing"}, // 24
	{label: "(-) Despesas Gerais e Administrativas", kind: lineSumifs, classification: "(-) Despesas Gerais e Administrativas"}, // 25
	{label: "(-) Tributárias", kind: lineSumifs, classification: "(-) Tributárias"},  // 26
	{label: "(-) Demais G&A", kind: lineSumifs, classification: "(-) Demais G&A"},    // 27
	{label: "= EBITDA", kind: lineFormula, template: "{c}17+{c}19+{c}20+{c}22+{c}23+{c}24+{c}25+{c}26+{c}27", bold: true}, // 28
	{kind: lineBlank}, // 29
	{label: "= EBIT", kind: lineFormula, template: "{c}28+{c}21", bold: true},                            // 30
	{label: "Resultado Financeiro", kind: lineSubtotal, children: []int{32, 33, 34}, bold: true},         // 31
	{label: "  (+) Receitas Financeiras", kind: lineSumifs, classification: "(+) Receitas Financeiras"},  // 32
	{label: "  (-) Despesas Financeiras", kind: lineSumifs, classification: "(-) Despesas Financeiras"},  // 33
	{label: "  (+) Demais Resultados Financeiros", kind: lineSumifs, classification: "(+) Resultado Financeiro"}, // 34
	{label: "Resultado não Operacional", kind: lineSubtotal, children: []int{36, 37}, bold: true},        // 35
	{label: "  (+) Receitas não Operacionais", kind: lineSumifs, classification: "(+) Receitas não Operacionais"}, // 36
	{label: "  (-) Despesas não Operacionais", kind: lineSumifs, classification: "(-) Despesas não Operacionais"}, // 37
	{label: "= Lucro Antes IR/CSLL", kind: lineFormula, template: "{c}30+{c}31+{c}35", bold: true}, // 38
	{label: "(-) IRPJ e CSLL", kind: lineSubtotal, children: []int{40, 41}, bold: true},            // 39
	{label: "  (-) IRPJ", kind: lineSumifs, classification: "(-) IRPJ"},                            // 40
	{label: "  (-) CSLL", kind: lineSumifs, classification: "(-) CSLL"},                            // 41
	{label: "= Lucro Líquido", kind: lineFormula, template: "{c}38+{c}39", bold: true},             // 42
	{kind: lineBlank}, // 43
	{label: "Análise Vertical", kind: lineLabel, bold: true},                                     // 44
	{label: "Margem Bruta", kind: lineMargin, template: "IFERROR({c}17/{c}11,0)", percent: true},  // 45
	{label: "Margem EBITDA", kind: lineMargin, template: "IFERROR({c}28/{c}11,0)", percent: true}, // 46
	{label: "Margem Líquida", kind: lineMargin, template: "IFERROR({c}42/{c}11,0)", percent: true}, // 47
}

func writeDRE(f *excelize.File, st styles, periods []period.Period) error {
	if err := writeHeaders(f, st, SheetDRE, periods, "Total Ano"); err != nil {
		return err
	}
	totalCol := len(periods) + 2

	for i, ln := range dreLines {
		r := row(i)
		if err := writeLabel(f, st, SheetDRE, ln, r); err != nil {
			return err
		}
		for j, p := range periods {
			col := j + 2
			var formula string
			switch ln.kind {
			case lineSumifs:
				if j == 0 {
					formula = "-" + sumifs(ln.classification, p)
				} else {
					formula = sumifsVariation(ln.classification, p, periods[j-1])
				}
			case lineSubtotal:
				formula = subtotal(col, ln.children)
			case lineFormula, lineMargin:
				formula = fill(ln.template, col)
			default:
				continue
			}
			if err := f.SetCellFormula(SheetDRE, cellRef(col, r), formula); err != nil {
				return err
			}
		}

		var formula string
		switch ln.kind {
		case lineSumifs:
			formula = sumRange(r, totalCol-1)
		case lineSubtotal:
			formula = subtotal(totalCol, ln.children)
		case lineFormula, lineMargin:
			formula = fill(ln.template, totalCol)
		}
		if formula != "" {
			if err := f.SetCellFormula(SheetDRE, cellRef(totalCol, r), formula); err != nil {
				return err
			}
		}
	}
	return styleStatement(f, st, SheetDRE, dreLines, totalCol)
}
