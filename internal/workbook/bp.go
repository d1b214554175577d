package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/period"
)

// Balance-sheet rows referenced by the cash-flow tab. The DFC formulas
// are built against these positions, so bpLines cannot be reordered
// without updating them.
const (
	bpCashRow         = 4
	bpClientsRow      = 5
	bpPrepaidRow      = 6
	bpOtherCreditsRow = 7
	bpLongTermRow     = 9
	bpFixedGrossRow   = 11
	bpIntangGrossRow  = 14
	bpLoansShortRow   = 20
	bpDividendsRow    = 21
	bpSuppliersRow    = 22
	bpLaborRow        = 23
	bpTaxesRow        = 24
	bpOtherPayableRow = 25
	bpLoansLongRow    = 27
	bpCapitalRow      = 29
	bpReservesRow     = 30
	bpRetainedRow     = 31

	// Rows surfaced to reports and the API.
	BPRowTotalAssets     = 16
	BPRowTotalLiabEquity = 33
	BPRowDifference      = 36
)

// bpLines lays out the balance sheet, rows 2 through 37. Every value
// column is a cumulative end-of-period balance (direct SUMIFS over the
// signed column, no month-over-month subtraction), so assets read
// positive and liabilities and equity read negative, and Total Ativo
// plus Total Passivo + PL must net to zero.
//
// Results are not closed into equity during the year; the open result
// lives in the revenue and expense groups. Resultado do Exercício
// plugs it into the PL as the negated cumulative DRE net income, which
// is what makes the validation rows land on zero.
var bpLines = []stmtLine{
	{label: "ATIVO", kind: lineLabel, bold: true},                                           // 2
	{label: "Ativo Circulante", kind: lineSubtotal, children: []int{4, 5, 6, 7}, bold: true}, // 3
	{label: "  (+) Caixa e Equivalentes de Caixa", kind: lineSumifs, classification: "(+) Caixa e Equivalentes de Caixa"}, // 4
	{label: "  (+) Clientes", kind: lineSumifs, classification: "(+) Clientes"}, // 5
	{label: "  (+) Despesas Pagas Antecipadamente", kind: lineSumifs, classification: "(+) Despesas Pagas Antecipadamente"}, // 6
	{label: "  (+) Outros Créditos", kind: lineSumifs, classification: "(+) Outros Créditos"}, // 7
	{label: "Ativo Não Circulante", kind: lineSubtotal, children: []int{9, 10, 13}, bold: true}, // 8
	{label: "  (+) Realizável a Longo Prazo", kind: lineSumifs, classification: "(+) Realizavel a Longo Prazo"}, // 9
	{label: "  (+) Imobilizado", kind: lineSubtotal, children: []int{11, 12}, bold: true},    // 10
	{label: "    (+) Bens em Operação", kind: lineSumifs, classification: "(+) Bens em operação"}, // 11
	{label: "    (-) Depreciação Acumulada", kind: lineSumifs, classification: "(-) Depreciação"}, // 12
	{label: "  (+) Intangível", kind: lineSubtotal, children: []int{14, 15}, bold: true},     // 13
	{label: "    (+) Softwares e Projetos", kind: lineSumifs, classification: "(+) Softwares, Projetos"}, // 14
	{label: "    (-) Amortização Acumulada", kind: lineSumifs, classification: "(-) Depreciação Intangível"}, // 15
	{label: "Total Ativo", kind: lineFormula, template: "{c}3+{c}8", bold: true}, // 16
	{kind: lineBlank}, // 17
	{label: "PASSIVO + PL", kind: lineLabel, bold: true},                                                // 18
	{label: "Passivo Circulante", kind: lineSubtotal, children: []int{20, 21, 22, 23, 24, 25}, bold: true}, // 19
	{label: "  (+) Empréstimos e Financiamentos CP", kind: lineSumifs, classification: "(+) Emprestimos e Financiamentos Curto Prazo"}, // 20
	{label: "  (+) Dividendos a Distribuir", kind: lineSumifs, classification: "(+) Dividendos a Distribuir"}, // 21
	{label: "  (+) Fornecedores", kind: lineSumifs, classification: "(+) Fornecedores"}, // 22
	{label: "  (+) Obrigações Trabalhistas e Previdenciárias", kind: lineSumifs, classification: "(+) Obrigações Trabalhistas e Previdenciárias"}, // 23
	{label: "  (+) Obrigações Tributárias", kind: lineSumifs, classification: "(+) Obrigações Tributárias"}, // 24
	{label: "  (+) Outras Obrigações", kind: lineSumifs, classification: "(+) Outras Obrigações"}, // 25
	{label: "Passivo Não Circulante", kind: lineSubtotal, children: []int{27}, bold: true}, // 26
	{label: "  (+) Empréstimos e Financiamentos LP", kind: lineSumifs, classification: "(+) Emprestimos e Financiamentos Longo Prazo"}, // 27
	{label: "Patrimônio Líquido", kind: lineSubtotal, children: []int{29, 30, 31, 32}, bold: true}, // 28
	{label: "  (+) Capital Social", kind: lineSumifs, classification: "(+) Capital Social"},        // 29
	{label: "  (+) Reserva de Lucros", kind: lineSumifs, classification: "(+) Reserva de Lucros"},  // 30
	{label: "  (+) Lucros/Prejuízos Acumulados", kind: lineSumifs, classification: "(+) Lucros e Prejuízos Acumulados"}, // 31
	{label: "  (+) Resultado do Exercício", kind: lineDRERef},                             // 32
	{label: "Total Passivo + PL", kind: lineFormula, template: "{c}19+{c}26+{c}28", bold: true}, // 33
	{kind: lineBlank}, // 34
	{label: "Validação", kind: lineLabel, bold: true},                                       // 35
	{label: "Diferença (Ativo + Passivo+PL)", kind: lineFormula, template: "{c}16+{c}33"},   // 36
	{label: "Check", kind: lineCheck, template: "{c}36"},                                    // 37
}

// bpResultFormula is the negated cumulative DRE net income through col.
func bpResultFormula(col int) string {
	if col == 2 {
		return fmt.Sprintf("-%s", sheetRef(SheetDRE, 2, DRERowNetIncome))
	}
	return fmt.Sprintf("-SUM(%s:%s)",
		sheetRef(SheetDRE, 2, DRERowNetIncome), cellRef(col, DRERowNetIncome))
}

func writeBP(f *excelize.File, st styles, periods []period.Period) error {
	if err := writeHeaders(f, st, SheetBP, periods, "Último Período"); err != nil {
		return err
	}
	totalCol := len(periods) + 2

	for i, ln := range bpLines {
		r := row(i)
		if err := writeLabel(f, st, SheetBP, ln, r); err != nil {
			return err
		}
		for j, p := range periods {
			col := j + 2
			formula, ok := bpFormula(ln, col, p)
			if !ok {
				continue
			}
			if err := f.SetCellFormula(SheetBP, cellRef(col, r), formula); err != nil {
				return err
			}
		}

		// Balances are cumulative, so the final column repeats the
		// last month instead of summing the year.
		formula, ok := bpFormula(ln, totalCol, periods[len(periods)-1])
		if ln.kind == lineDRERef {
			formula, ok = bpResultFormula(totalCol-1), true
		}
		if ok {
			if err := f.SetCellFormula(SheetBP, cellRef(totalCol, r), formula); err != nil {
				return err
			}
		}
	}
	return styleStatement(f, st, SheetBP, bpLines, totalCol)
}

func bpFormula(ln stmtLine, col int, p period.Period) (string, bool) {
	switch ln.kind {
	case lineSumifs:
		return sumifs(ln.classification, p), true
	case lineSubtotal:
		return subtotal(col, ln.children), true
	case lineFormula:
		return fill(ln.template, col), true
	case lineCheck:
		return checkFormula(fill(ln.template, col)), true
	case lineDRERef:
		return bpResultFormula(col), true
	}
	return "", false
}
