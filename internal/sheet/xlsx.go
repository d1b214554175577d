package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the modern XML-zip spreadsheet format via excelize.
type XLSXReader struct{}

// Ext returns the extension this reader handles.
func (*XLSXReader) Ext() string { return ".xlsx" }

// ReadFile loads the first worksheet of an .xlsx file into a Grid.
func (*XLSXReader) ReadFile(path string) (Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("xlsx has no worksheets")
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", name, err)
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, v := range row {
			cells[j] = TextCell(v)
		}
		grid[i] = cells
	}
	return grid, nil
}
