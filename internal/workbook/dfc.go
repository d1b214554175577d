package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/period"
)

// DFC rows surfaced to reports and the API.
const (
	DFCRowCashVariation = 27
	DFCRowOpeningCash   = 28
	DFCRowClosingCash   = 29
)

// dfcLines lays out the indirect-method cash flow, rows 2 through 32.
// Every movement is -(BP current - BP previous) against fixed
// balance-sheet rows; the D&A add-back comes from the DRE instead of
// the accumulated depreciation rows, which is the same amount as long
// as depreciation is the only thing moving them. The check row proves
// the sections against the cash balance movement on the BP.
var dfcLines = []stmtLine{
	{label: "ATIVIDADES OPERACIONAIS", kind: lineLabel, bold: true},                         // 2
	{label: "Lucro Líquido", kind: lineDRERef, dreRow: DRERowNetIncome},                     // 3
	{label: "(+) Depreciação e Amortização", kind: lineDRERef, dreRow: DRERowDepreciation, negate: true}, // 4
	{label: "(+/-) Δ Clientes", kind: lineBPVar, bpRows: []int{bpClientsRow}},               // 5
	{label: "(+/-) Δ Desp. Pagas Antecipadamente", kind: lineBPVar, bpRows: []int{bpPrepaidRow}}, // 6
	{label: "(+/-) Δ Outros Créditos", kind: lineBPVar, bpRows: []int{bpOtherCreditsRow}},   // 7
	{label: "(+/-) Δ Fornecedores", kind: lineBPVar, bpRows: []int{bpSuppliersRow}},         // 8
	{label: "(+/-) Δ Obrig. Trabalhistas", kind: lineBPVar, bpRows: []int{bpLaborRow}},      // 9
	{label: "(+/-) Δ Obrig. Tributárias", kind: lineBPVar, bpRows: []int{bpTaxesRow}},       // 10
	{label: "(+/-) Δ Outras Obrigações", kind: lineBPVar, bpRows: []int{bpOtherPayableRow}}, // 11
	{label: "Subtotal Operacional", kind: lineSubtotal, children: []int{3, 4, 5, 6, 7, 8, 9, 10, 11}, bold: true}, // 12
	{kind: lineBlank}, // 13
	{label: "ATIVIDADES DE INVESTIMENTO", kind: lineLabel, bold: true},                     // 14
	{label: "(+/-) Δ Imobilizado", kind: lineBPVar, bpRows: []int{bpFixedGrossRow}},        // 15
	{label: "(+/-) Δ Intangível", kind: lineBPVar, bpRows: []int{bpIntangGrossRow}},        // 16
	{label: "(+/-) Δ Realizável LP", kind: lineBPVar, bpRows: []int{bpLongTermRow}},        // 17
	{label: "Subtotal Investimento", kind: lineSubtotal, children: []int{15, 16, 17}, bold: true}, // 18
	{kind: lineBlank}, // 19
	{label: "ATIVIDADES DE FINANCIAMENTO", kind: lineLabel, bold: true},                              // 20
	{label: "(+/-) Δ Empréstimos (CP + LP)", kind: lineBPVar, bpRows: []int{bpLoansShortRow, bpLoansLongRow}}, // 21
	{label: "(-) Distribuição de Lucros", kind: lineBPVar, bpRows: []int{bpDividendsRow}},            // 22
	{label: "(+/-) Δ Capital Social", kind: lineBPVar, bpRows: []int{bpCapitalRow}},                  // 23
	{label: "(+/-) Δ Reservas e Lucros Acumulados", kind: lineBPVar, bpRows: []int{bpReservesRow, bpRetainedRow}}, // 24
	{label: "Subtotal Financiamento", kind: lineSubtotal, children: []int{21, 22, 23, 24}, bold: true}, // 25
	{kind: lineBlank}, // 26
	{label: "Variação de Caixa", kind: lineFormula, template: "{c}12+{c}18+{c}25", bold: true}, // 27
	{label: "Saldo Inicial de Caixa", kind: lineBPRefPrev, bpRows: []int{bpCashRow}},           // 28
	{label: "Saldo Final de Caixa", kind: lineBPRefCur, bpRows: []int{bpCashRow}},              // 29
	{kind: lineBlank}, // 30
	{label: "Validação", kind: lineLabel, bold: true},                       // 31
	{label: "Check", kind: lineCheck, template: "{c}27-({c}29-{c}28)"},      // 32
}

// bpVarFormula is -(current - previous) over one or more balance-sheet
// rows. The first month has no previous column and diffs against zero.
func bpVarFormula(col int, bpRows []int) string {
	cur := joinBPRefs(col, bpRows)
	if col == 2 {
		return fmt.Sprintf("-(%s)", cur)
	}
	return fmt.Sprintf("-(%s-(%s))", cur, joinBPRefs(col-1, bpRows))
}

func joinBPRefs(col int, bpRows []int) string {
	parts := make([]string, len(bpRows))
	for i, r := range bpRows {
		parts[i] = sheetRef(SheetBP, col, r)
	}
	return strings.Join(parts, "+")
}

func writeDFC(f *excelize.File, st styles, periods []period.Period) error {
	if err := writeHeaders(f, st, SheetDFC, periods, "Total Ano"); err != nil {
		return err
	}
	totalCol := len(periods) + 2
	lastMonthCol := totalCol - 1

	for i, ln := range dfcLines {
		r := row(i)
		if err := writeLabel(f, st, SheetDFC, ln, r); err != nil {
			return err
		}
		for j := range periods {
			col := j + 2
			formula, ok := dfcMonthFormula(ln, col)
			if !ok {
				continue
			}
			if err := f.SetCellFormula(SheetDFC, cellRef(col, r), formula); err != nil {
				return err
			}
		}

		var formula string
		switch ln.kind {
		case lineBlank, lineLabel:
		case lineBPRefPrev:
			// The annual opening balance is the first month's, zero.
			formula = "0"
		case lineBPRefCur:
			formula = sheetRef(SheetBP, lastMonthCol, ln.bpRows[0])
		case lineCheck:
			formula = checkFormula(fill(ln.template, totalCol))
		default:
			formula = sumRange(r, lastMonthCol)
		}
		if formula != "" {
			if err := f.SetCellFormula(SheetDFC, cellRef(totalCol, r), formula); err != nil {
				return err
			}
		}
	}
	return styleStatement(f, st, SheetDFC, dfcLines, totalCol)
}

func dfcMonthFormula(ln stmtLine, col int) (string, bool) {
	switch ln.kind {
	case lineDRERef:
		ref := sheetRef(SheetDRE, col, ln.dreRow)
		if ln.negate {
			return "-" + ref, true
		}
		return ref, true
	case lineBPVar:
		return bpVarFormula(col, ln.bpRows), true
	case lineSubtotal:
		return subtotal(col, ln.children), true
	case lineFormula:
		return fill(ln.template, col), true
	case lineBPRefCur:
		return sheetRef(SheetBP, col, ln.bpRows[0]), true
	case lineBPRefPrev:
		if col == 2 {
			return "0", true
		}
		return sheetRef(SheetBP, col-1, ln.bpRows[0]), true
	case lineCheck:
		return checkFormula(fill(ln.template, col)), true
	}
	return "", false
}
