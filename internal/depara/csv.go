// Package depara maintains the de-para table: the mapping from each
// analytic (leaf) account code to the classification line it feeds in
// the income statement or balance sheet. New accounts are classified by
// built-in mappings and recorded for review; unmapped ones are marked
// for the AI pass.
package depara

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Header is the CSV header for depara.csv.
const Header = "codigo_conta,titulo_original,classificacao,grupo_df,status"

const (
	numFields         = 5
	colCode           = 0
	colTitle          = 1
	colClassification = 2
	colStatement      = 3
	colStatus         = 4
)

// Entry statuses. Auto entries came from the built-in mappings, Pending
// ones await AI or human review, Reviewed ones were confirmed by hand.
const (
	StatusAuto     = "Auto"
	StatusPending  = "Pendente"
	StatusReviewed = "Revisado"
	StatusAI       = "IA"
)

// PendingClassification marks accounts no mapping could place.
const PendingClassification = "Pendente IA"

// Entry is one line of the depara table.
type Entry struct {
	AccountCode    string `json:"codigo_conta"`
	Title          string `json:"titulo_original"`
	Classification string `json:"classificacao"`
	Statement      string `json:"grupo_df"`
	Status         string `json:"status"`
}

// ReadEntries reads depara.csv.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading depara CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []Entry
	for _, rec := range records[1:] {
		entries = append(entries, UnmarshalEntry(rec))
	}
	return entries, nil
}

// WriteEntries writes depara.csv (including header).
func WriteEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendEntries appends entries to an existing depara.csv writer (no header).
func AppendEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colCode] = e.AccountCode
	row[colTitle] = e.Title
	row[colClassification] = e.Classification
	row[colStatement] = e.Statement
	row[colStatus] = e.Status
	return row
}

// UnmarshalEntry converts a CSV row to an Entry. All fields are free
// text, so rows with the right shape never fail.
func UnmarshalEntry(record []string) Entry {
	return Entry{
		AccountCode:    strings.TrimSpace(record[colCode]),
		Title:          record[colTitle],
		Classification: record[colClassification],
		Statement:      record[colStatement],
		Status:         record[colStatus],
	}
}
