package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/workbook"
)

const (
	exportHeaderFill  = "1F4E79"
	exportBorderColor = "D9D9D9"
	exportMaxColWidth = 25
)

// Tolerance below which a check row renders as passing.
var checkTolerance = decimal.New(2, -2)

// ExcelFilename names the download for a given year.
func ExcelFilename(year string) string {
	return fmt.Sprintf("Relatorio_Financeiro_%s.xlsx", year)
}

type exportStyles struct {
	header     int
	label      int
	labelBold  int
	number     int
	numberBold int
	percent    int
	text       int
}

// WriteExcel writes the evaluated statements as a styled spreadsheet:
// plain values, no formulas, meant as a report download rather than a
// live model.
func WriteExcel(w io.Writer, stmts workbook.Statements) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newExportStyles(f)
	if err != nil {
		return err
	}

	sheets := []struct {
		name string
		s    workbook.Statement
	}{
		{"DRE", stmts.DRE},
		{"BP", stmts.BP},
		{"DFC", stmts.DFC},
	}

	if err := f.SetSheetName("Sheet1", sheets[0].name); err != nil {
		return err
	}
	for _, sh := range sheets[1:] {
		if _, err := f.NewSheet(sh.name); err != nil {
			return err
		}
	}
	for _, sh := range sheets {
		if err := writeExportSheet(f, st, sh.name, sh.s); err != nil {
			return fmt.Errorf("sheet %s: %w", sh.name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func writeExportSheet(f *excelize.File, st exportStyles, sheet string, s workbook.Statement) error {
	if len(s.Periods) == 0 {
		return f.SetCellValue(sheet, "A1", "Sem dados disponíveis")
	}

	headers := make([]string, 0, len(s.Periods)+2)
	headers = append(headers, "Conta")
	for _, p := range s.Periods {
		headers = append(headers, p.Header())
	}
	headers = append(headers, s.TotalHeader)

	for i, h := range headers {
		cell := cellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), st.header); err != nil {
		return err
	}

	widest := len("Conta")
	for _, ln := range s.Lines {
		r := ln.Row
		if l := len([]rune(ln.Label)); l > widest {
			widest = l
		}
		if err := writeExportLine(f, st, sheet, r, ln); err != nil {
			return err
		}
	}

	width := float64(widest + 4)
	if width > exportMaxColWidth {
		width = exportMaxColWidth
	}
	if err := f.SetColWidth(sheet, "A", "A", width); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", colLetter(len(headers)), 13); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}

func writeExportLine(f *excelize.File, st exportStyles, sheet string, r int, ln workbook.Line) error {
	labelStyle := st.label
	if ln.Bold || ln.Heading {
		labelStyle = st.labelBold
	}
	if err := f.SetCellValue(sheet, cellName(1, r), ln.Label); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(1, r), cellName(1, r), labelStyle); err != nil {
		return err
	}
	if ln.Values == nil {
		return nil
	}

	cells := append(append([]decimal.Decimal{}, ln.Values...), ln.Total)
	for j, v := range cells {
		cell := cellName(j+2, r)
		switch {
		case ln.Check:
			if err := f.SetCellValue(sheet, cell, checkText(v)); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, st.text); err != nil {
				return err
			}
		case ln.Percent:
			if err := f.SetCellValue(sheet, cell, v.InexactFloat64()); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, st.percent); err != nil {
				return err
			}
		default:
			if err := f.SetCellValue(sheet, cell, v.InexactFloat64()); err != nil {
				return err
			}
			style := st.number
			if ln.Bold {
				style = st.numberBold
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkText(diff decimal.Decimal) string {
	if diff.Abs().LessThan(checkTolerance) {
		return "✓"
	}
	return "✗ Diff: " + FormatBR(diff)
}

func newExportStyles(f *excelize.File) (exportStyles, error) {
	var st exportStyles
	var err error

	numFmt := "#,##0.00"
	pctFmt := "0.0%"
	border := []excelize.Border{
		{Type: "left", Color: exportBorderColor, Style: 1},
		{Type: "right", Color: exportBorderColor, Style: 1},
		{Type: "top", Color: exportBorderColor, Style: 1},
		{Type: "bottom", Color: exportBorderColor, Style: 1},
	}

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{exportHeaderFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return st, err
	}
	st.label, err = f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return st, err
	}
	st.labelBold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Border: border})
	if err != nil {
		return st, err
	}
	st.number, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt, Border: border})
	if err != nil {
		return st, err
	}
	st.numberBold, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt, Border: border,
	})
	if err != nil {
		return st, err
	}
	st.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt, Border: border})
	if err != nil {
		return st, err
	}
	st.text, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	return st, err
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

func colLetter(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}
