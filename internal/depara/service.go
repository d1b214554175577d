package depara

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cleared-dev/balancete/internal/model"
)

// Service manages the depara table at a fixed CSV path. All methods are
// safe for concurrent use; the table is small enough to reread on every
// call, which keeps hand edits to the file visible.
type Service struct {
	path string
	mu   sync.Mutex
}

// NewService creates a depara Service backed by the CSV at path.
func NewService(path string) *Service {
	return &Service{path: path}
}

// Path returns the CSV file location.
func (s *Service) Path() string {
	return s.path
}

// Load reads the whole depara table. A missing file is an empty table.
func (s *Service) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Service) load() ([]Entry, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening depara %s: %w", s.path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading depara %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *Service) save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating depara dir: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating depara %s: %w", s.path, err)
	}
	defer f.Close()

	if err := WriteEntries(f, entries); err != nil {
		return fmt.Errorf("writing depara %s: %w", s.path, err)
	}
	return nil
}

func (s *Service) append(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating depara dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening depara %s: %w", s.path, err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendEntries(f, entries); err != nil {
		return fmt.Errorf("appending to depara %s: %w", s.path, err)
	}
	return nil
}

// Stats summarizes one classification pass.
type Stats struct {
	Classified int `json:"classificadas"`
	Pending    int `json:"pendentes"`
	New        int `json:"novas"`
}

// Classify assigns a classification to every leaf row, in place.
//
// Lookup order per account: the persisted table, the exact-code map,
// then the level-4 prefix map. Accounts none of them cover get
// PendingClassification. Every account not yet in the table is appended
// to it, so the table accretes the chart of accounts over time. Macro
// rows are left untouched.
func (s *Service) Classify(rows []model.Row) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return Stats{}, err
	}
	known := make(map[string]Entry, len(existing))
	for _, e := range existing {
		known[e.AccountCode] = e
	}

	var stats Stats
	var added []Entry
	for i := range rows {
		if rows[i].Type != model.NodeLeaf {
			continue
		}
		code := rows[i].AccountCode

		if e, ok := known[code]; ok && e.Classification != "" {
			rows[i].Classification = e.Classification
			if e.Classification == PendingClassification {
				stats.Pending++
			} else {
				stats.Classified++
			}
			continue
		}

		classification, status := lookup(code)
		rows[i].Classification = classification
		if classification == PendingClassification {
			stats.Pending++
		} else {
			stats.Classified++
		}

		entry := Entry{
			AccountCode:    code,
			Title:          rows[i].Title,
			Classification: classification,
			Statement:      StatementFor(classification),
			Status:         status,
		}
		added = append(added, entry)
		known[code] = entry
	}

	stats.New = len(added)
	if len(added) > 0 {
		if err := s.append(added); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func lookup(code string) (classification, status string) {
	if c, ok := SpecificAccountMapping[code]; ok {
		return c, StatusAuto
	}
	if c, ok := DefaultMapping[Level4Prefix(code)]; ok {
		return c, StatusAuto
	}
	return PendingClassification, StatusPending
}

// UpdateResult reports what an Update call did.
type UpdateResult struct {
	Propagated         bool   `json:"propagated"`
	NewStatementNeeded bool   `json:"new_df_line_needed"`
	Classification     string `json:"classification"`
	Statement          string `json:"grupo_df"`
}

// Update reclassifies one account and marks it reviewed. An empty
// statement derives the DF group from the catalogue, a non-empty one
// overrides it. Propagated is false when the account is not in the
// table yet; NewStatementNeeded flags classifications no statement
// line maps to, so the caller can warn that the workbook templates
// will not pick the account up.
func (s *Service) Update(code, classification, statement string) (UpdateResult, error) {
	derived := StatementFor(classification)
	if statement == "" {
		statement = derived
	}
	res := UpdateResult{
		NewStatementNeeded: derived == "",
		Classification:     classification,
		Statement:          statement,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return res, err
	}

	for i := range entries {
		if entries[i].AccountCode != code {
			continue
		}
		entries[i].Classification = classification
		entries[i].Statement = statement
		entries[i].Status = StatusReviewed

		if err := s.save(entries); err != nil {
			return res, err
		}
		res.Propagated = true
		return res, nil
	}
	return res, nil
}

// SetMany applies a batch of classifications (typically AI suggestions)
// to the table, tagging each touched entry with the given status.
func (s *Service) SetMany(classifications map[string]string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	changed := false
	for i := range entries {
		c, ok := classifications[entries[i].AccountCode]
		if !ok {
			continue
		}
		entries[i].Classification = c
		entries[i].Statement = StatementFor(c)
		entries[i].Status = status
		changed = true
	}
	if !changed {
		return nil
	}
	return s.save(entries)
}

// Pending returns the entries still awaiting review.
func (s *Service) Pending() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range entries {
		if e.Status == StatusPending {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Classifications returns every known classification line: the built-in
// ones plus any custom lines already present in the table.
func (s *Service) Classifications() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(ClassificationStatement))
	for c := range ClassificationStatement {
		seen[c] = true
	}

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Classification != "" && e.Classification != PendingClassification {
			seen[e.Classification] = true
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
