package sheet

import (
	"fmt"

	"github.com/extrame/xls"
)

// XLSReader reads the legacy binary spreadsheet format.
type XLSReader struct{}

// Ext returns the extension this reader handles.
func (*XLSReader) Ext() string { return ".xls" }

// ReadFile loads the first worksheet of a legacy .xls file into a Grid.
// Row and column positions are preserved: gaps in the sheet become empty
// cells so the fixed preamble/data layout stays addressable.
func (*XLSReader) ReadFile(path string) (Grid, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("xls has no worksheets")
	}

	grid := make(Grid, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}

		cells := make([]Cell, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = TextCell(row.Col(j))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
