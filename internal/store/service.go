package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cleared-dev/balancete/internal/model"
	"github.com/cleared-dev/balancete/internal/period"
)

// Service reads and writes period files under a data directory.
type Service struct {
	dir string
	mu  sync.Mutex
}

// NewService creates a store Service rooted at dir.
func NewService(dir string) *Service {
	return &Service{dir: dir}
}

// Dir returns the data directory.
func (s *Service) Dir() string {
	return s.dir
}

func (s *Service) periodPath(p period.Period) string {
	return filepath.Join(s.dir, p.String()+".csv")
}

// WriteReport says what WriteMonth did.
type WriteReport struct {
	RowsWritten int           `json:"rows_written"`
	Replaced    bool          `json:"replaced"`
	Period      period.Period `json:"periodo"`
}

// WriteMonth stores one month's ledger, replacing any previous file for
// the same period so a re-ingested export wins. Rows are stored sorted
// by account code; the caller's slice is not reordered.
func (s *Service) WriteMonth(p period.Period, rows []model.Row) (WriteReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := WriteReport{RowsWritten: len(rows), Period: p}

	path := s.periodPath(p)
	if _, err := os.Stat(path); err == nil {
		rep.Replaced = true
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return rep, fmt.Errorf("creating data dir: %w", err)
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b model.Row) int {
		return strings.Compare(a.AccountCode, b.AccountCode)
	})

	f, err := os.Create(path)
	if err != nil {
		return rep, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteRows(f, sorted); err != nil {
		return rep, fmt.Errorf("writing %s: %w", path, err)
	}
	return rep, nil
}

// ReadMonth reads one period's rows. A missing period is nil, not an
// error.
func (s *Service) ReadMonth(p period.Period) ([]model.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readMonth(p)
}

func (s *Service) readMonth(p period.Period) ([]model.Row, error) {
	f, err := os.Open(s.periodPath(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.periodPath(p), err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.periodPath(p), err)
	}
	return rows, nil
}

// Periods lists the stored periods, ascending.
func (s *Service) Periods() ([]period.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.periods()
}

func (s *Service) periods() ([]period.Period, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var periods []period.Period
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		p, err := period.Parse(strings.TrimSuffix(name, ".csv"))
		if err != nil {
			continue
		}
		periods = append(periods, p)
	}
	period.Sort(periods)
	return periods, nil
}

// ReadAll reads every stored period in ascending order into one slice.
func (s *Service) ReadAll() ([]model.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	periods, err := s.periods()
	if err != nil {
		return nil, err
	}

	var all []model.Row
	for _, p := range periods {
		rows, err := s.readMonth(p)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

// UpdateClassification rewrites the classification of one account across
// every stored period. Returns the number of rows touched.
func (s *Service) UpdateClassification(code, classification string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	periods, err := s.periods()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, p := range periods {
		rows, err := s.readMonth(p)
		if err != nil {
			return total, err
		}

		changed := false
		for i := range rows {
			if rows[i].AccountCode == code {
				rows[i].Classification = classification
				changed = true
				total++
			}
		}
		if !changed {
			continue
		}

		f, err := os.Create(s.periodPath(p))
		if err != nil {
			return total, fmt.Errorf("creating %s: %w", s.periodPath(p), err)
		}
		if err := WriteRows(f, rows); err != nil {
			f.Close()
			return total, fmt.Errorf("writing %s: %w", s.periodPath(p), err)
		}
		if err := f.Close(); err != nil {
			return total, fmt.Errorf("closing %s: %w", s.periodPath(p), err)
		}
	}
	return total, nil
}
