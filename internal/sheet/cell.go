// Package sheet reads raw spreadsheet files into cell grids. The two
// backends (.xls and .xlsx) hide behind one Reader interface; everything
// downstream works on Grid and never touches a spreadsheet library.
package sheet

import "strings"

// CellKind discriminates the raw value held by a Cell.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
)

// Cell is a single raw spreadsheet cell. Text carries string cells,
// Number carries native numeric cells (the .xlsx reader only emits Text
// and Empty; Number exists for callers that build grids directly).
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell builds a Text cell, collapsing blank strings to Empty.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: KindText, Text: s}
}

// NumberCell builds a Number cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: KindNumber, Number: v}
}

// IsEmpty reports whether the cell holds no usable value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// String returns the trimmed text of a Text cell and "" otherwise.
func (c Cell) String() string {
	if c.Kind != KindText {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// Grid is a rectangularized view of a sheet's rows.
type Grid [][]Cell

// At returns the cell at row r, column c, or an Empty cell when the
// coordinates fall outside the grid (short rows are common in exports).
func (g Grid) At(r, c int) Cell {
	if r < 0 || r >= len(g) {
		return Cell{}
	}
	row := g[r]
	if c < 0 || c >= len(row) {
		return Cell{}
	}
	return row[c]
}

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	return len(g)
}
