package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader loads one spreadsheet format into a Grid.
type Reader interface {
	ReadFile(path string) (Grid, error)
	Ext() string
}

// UnsupportedFormatError is returned when no reader handles a file's
// extension.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported spreadsheet format %q (expected .xls or .xlsx)", e.Ext)
}

// Registry holds readers keyed by file extension.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate extension.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Ext())
	if _, ok := r.readers[key]; ok {
		panic("duplicate sheet reader for extension: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for ext, or nil.
func (r *Registry) Get(ext string) Reader {
	return r.readers[strings.ToLower(ext)]
}

// DefaultRegistry returns a registry with both built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&XLSReader{})
	return r
}

// Open reads path with the reader matching its extension. A missing file
// surfaces the wrapped fs.ErrNotExist; an extension without a registered
// reader surfaces *UnsupportedFormatError.
func (r *Registry) Open(path string) (Grid, error) {
	ext := strings.ToLower(filepath.Ext(path))
	rd := r.Get(ext)
	if rd == nil {
		return nil, &UnsupportedFormatError{Ext: ext}
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	grid, err := rd.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return grid, nil
}

// Open reads path with the default registry.
func Open(path string) (Grid, error) {
	return DefaultRegistry().Open(path)
}
