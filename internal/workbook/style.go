package workbook

import "github.com/xuri/excelize/v2"

const (
	numberFormat  = "#,##0.00"
	percentFormat = "0.0%"
	headerFill    = "1F4E79"
)

// styles holds the style ids registered once per workbook.
type styles struct {
	header     int
	bold       int
	number     int
	numberBold int
	percent    int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	numFmt := numberFormat
	pctFmt := percentFormat

	st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return st, err
	}
	st.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return st, err
	}
	st.number, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return st, err
	}
	st.numberBold, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return st, err
	}
	st.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt})
	return st, err
}

// applyHeader styles row 1 up to totalCol.
func (st styles) applyHeader(f *excelize.File, sheet string, totalCol int) error {
	return f.SetCellStyle(sheet, "A1", cellRef(totalCol, 1), st.header)
}

// freeze pins the header row and the label column.
func (st styles) freeze(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}
