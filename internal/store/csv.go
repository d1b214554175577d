// Package store persists parsed balancetes as one CSV per reference
// month under the data directory. The files are the source of truth the
// workbook and reports are rebuilt from; the layout is long format, one
// account row per line, sorted by account code.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/period"
)

// Header is the CSV header for a period file.
const Header = "codigo_conta,titulo_conta,nivel,tipo,grupo,periodo,saldo_original,indicador_dc,saldo_sinalizado,classificacao"

const (
	numFields         = 10
	colCode           = 0
	colTitle          = 1
	colLevel          = 2
	colType           = 3
	colGroup          = 4
	colPeriod         = 5
	colMagnitude      = 6
	colIndicator      = 7
	colBalance        = 8
	colClassification = 9
)

// ReadRows reads one period file.
func ReadRows(r io.Reader) ([]model.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading store CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows []model.Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows writes a period file (including header).
func WriteRows(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record. The unsigned magnitude and
// the signed balance are both written: the workbook formulas use one or
// the other depending on the statement.
func MarshalRow(r model.Row) []string {
	row := make([]string, numFields)
	row[colCode] = r.AccountCode
	row[colTitle] = r.Title
	row[colLevel] = strconv.Itoa(r.Level)
	row[colType] = string(r.Type)
	row[colGroup] = string(r.Group)
	row[colPeriod] = r.Period.String()
	row[colMagnitude] = r.CurrentBalance.Abs().StringFixed(2)
	row[colIndicator] = string(r.Indicator)
	row[colBalance] = r.CurrentBalance.StringFixed(2)
	row[colClassification] = r.Classification
	return row
}

// UnmarshalRow converts a CSV record to a Row. Movement columns are not
// persisted; a row read back carries only its closing balance.
func UnmarshalRow(record []string) (model.Row, error) {
	if len(record) != numFields {
		return model.Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	level, err := strconv.Atoi(record[colLevel])
	if err != nil {
		return model.Row{}, fmt.Errorf("parsing nivel %q: %w", record[colLevel], err)
	}

	p, err := period.Parse(record[colPeriod])
	if err != nil {
		return model.Row{}, fmt.Errorf("parsing periodo: %w", err)
	}

	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Row{}, fmt.Errorf("parsing saldo_sinalizado %q: %w", record[colBalance], err)
	}

	group := model.Group(record[colGroup])
	return model.Row{
		AccountCode:    record[colCode],
		Title:          record[colTitle],
		Level:          level,
		Type:           model.NodeType(record[colType]),
		Group:          group,
		GroupNumber:    group.Number(),
		CurrentBalance: balance,
		Indicator:      model.Indicator(record[colIndicator]),
		Period:         p,
		Classification: record[colClassification],
	}, nil
}
