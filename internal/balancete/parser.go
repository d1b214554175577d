package balancete

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/sheet"
)

const (
	colCode    = 0
	colReduced = 1
	colTitle   = 2
	colPrior   = 3
	colDebits  = 4
	colCredits = 5
	colCurrent = 6

	// sentinel terminates the data section (matched case-insensitively
	// against column 0).
	sentinel = "total geral"
)

// Parse reads and parses the balancete at path, dispatching the reader
// by file extension.
func Parse(path string) (model.Header, []model.Row, error) {
	grid, err := sheet.Open(path)
	if err != nil {
		return model.Header{}, nil, err
	}

	header, rows, err := ParseGrid(grid)
	if err != nil {
		return model.Header{}, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return header, rows, nil
}

// ParseGrid parses an already-loaded cell grid into the header metadata
// and the ordered, signed ledger. Input row order is preserved end to
// end: the Macro/Leaf rule depends on it.
func ParseGrid(grid sheet.Grid) (model.Header, []model.Row, error) {
	header, err := ExtractHeader(grid)
	if err != nil {
		return model.Header{}, nil, err
	}

	var rows []model.Row
	for i := headerRows; i < grid.Rows(); i++ {
		code := grid.At(i, colCode).String()
		if code == "" {
			continue
		}
		if strings.Contains(strings.ToLower(code), sentinel) {
			break
		}

		row, err := parseRow(grid, i, code)
		if err != nil {
			return model.Header{}, nil, err
		}
		row.Period = header.ReferenceMonth
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return model.Header{}, nil, &EmptyLedgerError{}
	}

	// Second pass: a row is Macro when the next retained row sits one or
	// more levels deeper. The last row is always a leaf.
	for i := range rows {
		if i+1 < len(rows) && rows[i+1].Level > rows[i].Level {
			rows[i].Type = model.NodeMacro
		} else {
			rows[i].Type = model.NodeLeaf
		}
	}

	return header, rows, nil
}

func parseRow(grid sheet.Grid, i int, code string) (model.Row, error) {
	first, _ := utf8.DecodeRuneInString(code)
	group, ok := model.GroupForDigit(first)
	if !ok {
		return model.Row{}, &UnknownAccountGroupError{Code: code, Row: i + 1}
	}
	groupNum := group.Number()

	priorMag, priorInd := ParseAmount(grid.At(i, colPrior))
	prior, err := ApplySign(priorMag, priorInd, groupNum)
	if err != nil {
		return model.Row{}, err
	}

	currentMag, currentInd := ParseAmount(grid.At(i, colCurrent))
	current, err := ApplySign(currentMag, currentInd, groupNum)
	if err != nil {
		return model.Row{}, err
	}

	debits, _ := ParseAmount(grid.At(i, colDebits))
	credits, _ := ParseAmount(grid.At(i, colCredits))

	return model.Row{
		AccountCode:    code,
		Title:          grid.At(i, colTitle).String(),
		Reduced:        lenientInt(grid.At(i, colReduced)),
		Level:          model.CodeLevel(code),
		Group:          group,
		GroupNumber:    groupNum,
		PriorBalance:   prior,
		Debits:         debits.Abs(),
		Credits:        credits.Abs(),
		CurrentBalance: current,
		Indicator:      currentInd,
	}, nil
}

// lenientInt parses the optional reduced code. The export writes it as
// "371" or "371.0" depending on the generator; anything else (including
// a missing cell) becomes 0, never an error.
func lenientInt(c sheet.Cell) int {
	switch c.Kind {
	case sheet.KindNumber:
		return int(c.Number)
	case sheet.KindText:
		s := strings.TrimSpace(c.Text)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return 0
}
