package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/period"
)

// stmtLine describes one row of a statement tab. The row a line lands
// on is its index in the statement slice plus firstRow; subtotal
// children and cross-tab references are expressed as sheet row numbers,
// so reordering a statement means renumbering.
type stmtLine struct {
	label string
	kind  lineKind

	// classification is the depara value summed by sumifs lines.
	classification string

	// children holds the sheet rows joined by subtotal lines.
	children []int

	// template is the formula for formula, margin and check lines,
	// with {c} standing for the current column letter.
	template string

	// dreRow / bpRows point at rows on the DRE and balance-sheet
	// tabs for the cross-referencing cash-flow lines.
	dreRow int
	bpRows []int

	bold    bool
	percent bool
	negate  bool
}

type lineKind int

const (
	lineBlank lineKind = iota

	// lineLabel is a section heading with no values.
	lineLabel

	// lineSumifs sums the base tab by classification and period.
	lineSumifs

	// lineSubtotal adds other rows of the same column.
	lineSubtotal

	// lineFormula and lineCheck evaluate template as-is; lineCheck
	// renders text and is skipped by the total column.
	lineFormula
	lineCheck

	// lineMargin is a percentage formula, blank in the total column.
	lineMargin

	// lineDRERef pulls a DRE row into the current column.
	lineDRERef

	// lineBPVar is the period-over-period movement of one or more
	// balance-sheet rows; lineBPRefCur and lineBPRefPrev read a
	// balance-sheet row at the current and previous column.
	lineBPVar
	lineBPRefCur
	lineBPRefPrev
)

// firstRow is the sheet row of a statement's first line; row 1 holds
// the period headers.
const firstRow = 2

// row converts a statement slice index to its sheet row.
func row(index int) int {
	return index + firstRow
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cellRef(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

// sumifs builds the base-tab aggregation for one classification and
// period. Only last-level rows carry value; macro rows would double
// count, so the node type is always part of the criteria.
func sumifs(classification string, p period.Period) string {
	base := "'" + SheetBase + "'!"
	return fmt.Sprintf("SUMIFS(%[1]sI:I,%[1]sJ:J,\"%[2]s\",%[1]sF:F,\"%[3]s\",%[1]sD:D,\"%[4]s\")",
		base, classification, p, model.NodeLeaf)
}

// sumifsVariation is the monthly movement: the current cumulative
// balance minus the previous one, negated so revenue (credit, stored
// negative) reads positive on the DRE.
func sumifsVariation(classification string, cur, prev period.Period) string {
	return fmt.Sprintf("-(%s-%s)", sumifs(classification, cur), sumifs(classification, prev))
}

// subtotal joins other rows of the same column with plus signs.
func subtotal(col int, rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = cellRef(col, r)
	}
	return strings.Join(parts, "+")
}

// fill renders a {c} template for one column.
func fill(template string, col int) string {
	return strings.ReplaceAll(template, "{c}", colName(col))
}

// sumRange sums a row across the month columns (B through the last
// month), used by the total column.
func sumRange(r, lastMonthCol int) string {
	return fmt.Sprintf("SUM(%s:%s)", cellRef(2, r), cellRef(lastMonthCol, r))
}

// sheetRef points a formula at a cell on another tab.
func sheetRef(sheet string, col, r int) string {
	return "'" + sheet + "'!" + cellRef(col, r)
}

// checkFormula renders ✓ when expr stays inside the reconciliation
// tolerance and the signed difference otherwise.
func checkFormula(expr string) string {
	return fmt.Sprintf("IF(ABS(%[1]s)<0.02,\"✓\",\"✗ Diff: \"&TEXT(%[1]s,\"#,##0.00\"))", expr)
}

// writeHeaders fills row 1: the label column, one column per period
// and a final total column.
func writeHeaders(f *excelize.File, st styles, sheet string, periods []period.Period, totalHeader string) error {
	if err := f.SetCellValue(sheet, "A1", "Conta"); err != nil {
		return err
	}
	for i, p := range periods {
		if err := f.SetCellValue(sheet, cellRef(i+2, 1), p.Header()); err != nil {
			return err
		}
	}
	totalCol := len(periods) + 2
	if err := f.SetCellValue(sheet, cellRef(totalCol, 1), totalHeader); err != nil {
		return err
	}
	return st.applyHeader(f, sheet, totalCol)
}

// writeLabel writes a line's label in column A with its style.
func writeLabel(f *excelize.File, st styles, sheet string, ln stmtLine, r int) error {
	if ln.kind == lineBlank {
		return nil
	}
	if err := f.SetCellValue(sheet, cellRef(1, r), ln.label); err != nil {
		return err
	}
	if ln.bold || ln.kind == lineLabel {
		return f.SetCellStyle(sheet, cellRef(1, r), cellRef(1, r), st.bold)
	}
	return nil
}

// styleStatement applies number and emphasis formats to the value area
// of a statement tab and freezes the header row and label column.
func styleStatement(f *excelize.File, st styles, sheet string, lines []stmtLine, totalCol int) error {
	if err := f.SetColWidth(sheet, "A", "A", 42); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", colName(totalCol), 14); err != nil {
		return err
	}
	for i, ln := range lines {
		r := row(i)
		first, last := cellRef(2, r), cellRef(totalCol, r)
		switch {
		case ln.kind == lineBlank, ln.kind == lineLabel, ln.kind == lineCheck:
		case ln.percent:
			if err := f.SetCellStyle(sheet, first, last, st.percent); err != nil {
				return err
			}
		case ln.bold:
			if err := f.SetCellStyle(sheet, first, last, st.numberBold); err != nil {
				return err
			}
		default:
			if err := f.SetCellStyle(sheet, first, last, st.number); err != nil {
				return err
			}
		}
	}
	return st.freeze(f, sheet)
}
