// Package workbook renders the stored ledger into statements.xlsx: a
// raw base tab plus DRE, balance-sheet and cash-flow tabs built entirely
// from native SUMIFS and cell formulas, so the workbook stays live when
// opened in Excel and recomputes if the base tab is edited.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/balancete/internal/store"
)

// Sheet names. The DRE and DFC formulas reference the other tabs by
// these names; renaming one breaks every cross-tab formula.
const (
	SheetBase = "Base Balancete"
	SheetDRE  = "DRE"
	SheetBP   = "Balanço Patrimonial"
	SheetDFC  = "DFC"
)

// ErrNoPeriods is returned when the store has nothing to build from.
var ErrNoPeriods = errors.New("no stored periods to build statements from")

// Builder rebuilds the statements workbook from the period store.
type Builder struct {
	store *store.Service
	path  string
}

// NewBuilder creates a Builder that writes the workbook at path.
func NewBuilder(st *store.Service, path string) *Builder {
	return &Builder{store: st, path: path}
}

// Path returns the workbook file location.
func (b *Builder) Path() string {
	return b.path
}

// Rebuild regenerates the workbook file from scratch.
func (b *Builder) Rebuild() error {
	f, err := b.build()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("creating workbook dir: %w", err)
	}
	if err := f.SaveAs(b.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// Write streams a freshly built workbook, without touching the file on
// disk.
func (b *Builder) Write(w io.Writer) error {
	f, err := b.build()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (b *Builder) build() (*excelize.File, error) {
	periods, err := b.store.Periods()
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}

	rows, err := b.store.ReadAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetBase); err != nil {
		f.Close()
		return nil, err
	}
	for _, sheet := range []string{SheetDRE, SheetBP, SheetDFC} {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeBase(f, st, rows); err != nil {
		f.Close()
		return nil, fmt.Errorf("building %s: %w", SheetBase, err)
	}
	if err := writeDRE(f, st, periods); err != nil {
		f.Close()
		return nil, fmt.Errorf("building %s: %w", SheetDRE, err)
	}
	if err := writeBP(f, st, periods); err != nil {
		f.Close()
		return nil, fmt.Errorf("building %s: %w", SheetBP, err)
	}
	if err := writeDFC(f, st, periods); err != nil {
		f.Close()
		return nil, fmt.Errorf("building %s: %w", SheetDFC, err)
	}

	idx, err := f.GetSheetIndex(SheetBase)
	if err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}
