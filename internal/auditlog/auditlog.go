// Package auditlog keeps the CSV history of balancete processings. One
// row is appended per ingest, successful or not, so the status endpoint
// and the history command can show what happened to each upload.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the processing log.
type Entry struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Filename    string        `json:"arquivo"`
	Period      string        `json:"periodo"`
	Company     string        `json:"empresa"`
	Rows        int           `json:"linhas"`
	Replaced    bool          `json:"substituido"`
	Warnings    int           `json:"avisos"`
	Errors      int           `json:"erros"`
	NewAccounts int           `json:"contas_novas"`
	Status      string        `json:"status"`
	Elapsed     time.Duration `json:"-"`
}

// Processing outcomes.
const (
	StatusSuccess = "sucesso"
	StatusError   = "erro"
)

// Header is the CSV header for processing.csv.
const Header = "id,timestamp,filename,period,company,rows,replaced,warnings,errors,new_accounts,status,elapsed_ms"

const (
	numFields      = 12
	logFile        = "processing.csv"
	defaultTailLen = 20

	colID          = 0
	colTimestamp   = 1
	colFilename    = 2
	colPeriod      = 3
	colCompany     = 4
	colRows        = 5
	colReplaced    = 6
	colWarnings    = 7
	colErrors      = 8
	colNewAccounts = 9
	colStatus      = 10
	colElapsedMS   = 11
)

// Path returns the processing log location under the logs dir.
func Path(dir string) string {
	return filepath.Join(dir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFilename] = e.Filename
	row[colPeriod] = e.Period
	row[colCompany] = e.Company
	row[colRows] = strconv.Itoa(e.Rows)
	row[colReplaced] = strconv.FormatBool(e.Replaced)
	row[colWarnings] = strconv.Itoa(e.Warnings)
	row[colErrors] = strconv.Itoa(e.Errors)
	row[colNewAccounts] = strconv.Itoa(e.NewAccounts)
	row[colStatus] = e.Status
	row[colElapsedMS] = strconv.FormatInt(e.Elapsed.Milliseconds(), 10)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	rows, err := parseIntField("rows", record[colRows])
	if err != nil {
		return Entry{}, err
	}
	warnings, err := parseIntField("warnings", record[colWarnings])
	if err != nil {
		return Entry{}, err
	}
	errs, err := parseIntField("errors", record[colErrors])
	if err != nil {
		return Entry{}, err
	}
	newAccounts, err := parseIntField("new_accounts", record[colNewAccounts])
	if err != nil {
		return Entry{}, err
	}
	elapsedMS, err := strconv.ParseInt(record[colElapsedMS], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing elapsed_ms %q: %w", record[colElapsedMS], err)
	}
	replaced, err := strconv.ParseBool(record[colReplaced])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing replaced %q: %w", record[colReplaced], err)
	}

	return Entry{
		ID:          record[colID],
		Timestamp:   ts,
		Filename:    record[colFilename],
		Period:      record[colPeriod],
		Company:     record[colCompany],
		Rows:        rows,
		Replaced:    replaced,
		Warnings:    warnings,
		Errors:      errs,
		NewAccounts: newAccounts,
		Status:      record[colStatus],
		Elapsed:     time.Duration(elapsedMS) * time.Millisecond,
	}, nil
}

func parseIntField(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return n, nil
}

// Append writes entries to <dir>/processing.csv, creating the dir,
// file and header if needed. Entries without an ID get one.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening processing log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dir>/processing.csv, oldest first.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening processing log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Tail returns the n most recent entries, newest first. n <= 0 means
// the default of 20.
func Tail(dir string, n int) ([]Entry, error) {
	entries, err := Read(dir)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = defaultTailLen
	}

	out := make([]Entry, 0, min(n, len(entries)))
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading processing log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
