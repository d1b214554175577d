package workbook

import (
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/model"
)

// Base tab column order. The statement formulas aggregate columns D
// (tipo), F (periodo), I (saldo_sinalizado) and J (classificacao), so
// this layout is part of the workbook contract.
var baseHeaders = []string{
	"codigo_conta",
	"titulo_conta",
	"nivel",
	"tipo",
	"grupo",
	"periodo",
	"saldo_original",
	"indicador_dc",
	"saldo_sinalizado",
	"classificacao",
}

// writeBase fills the raw data tab, one row per stored account and
// period, in store order (ascending period, then account code).
func writeBase(f *excelize.File, st styles, rows []model.Row) error {
	for i, h := range baseHeaders {
		if err := f.SetCellValue(SheetBase, cellRef(i+1, 1), h); err != nil {
			return err
		}
	}
	if err := st.applyHeader(f, SheetBase, len(baseHeaders)); err != nil {
		return err
	}

	for i, r := range rows {
		n := i + 2
		cells := []any{
			r.AccountCode,
			r.Title,
			r.Level,
			string(r.Type),
			string(r.Group),
			r.Period.String(),
			r.CurrentBalance.Abs().InexactFloat64(),
			string(r.Indicator),
			r.CurrentBalance.InexactFloat64(),
			r.Classification,
		}
		for j, v := range cells {
			if err := f.SetCellValue(SheetBase, cellRef(j+1, n), v); err != nil {
				return err
			}
		}
	}

	widths := map[string]float64{"A": 16, "B": 42, "G": 16, "I": 16, "J": 34}
	for col, w := range widths {
		if err := f.SetColWidth(SheetBase, col, col, w); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		first, last := cellRef(7, 2), cellRef(7, len(rows)+1)
		if err := f.SetCellStyle(SheetBase, first, last, st.number); err != nil {
			return err
		}
		first, last = cellRef(9, 2), cellRef(9, len(rows)+1)
		if err := f.SetCellStyle(SheetBase, first, last, st.number); err != nil {
			return err
		}
	}
	return st.freeze(f, SheetBase)
}
