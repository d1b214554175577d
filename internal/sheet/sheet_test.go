package sheet

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTextCell_BlankCollapsesToEmpty(t *testing.T) {
	assert.True(t, TextCell("").IsEmpty())
	assert.True(t, TextCell("   ").IsEmpty())
	assert.False(t, TextCell("x").IsEmpty())
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "abc", TextCell("  abc  ").String())
	assert.Equal(t, "", Cell{}.String())
	assert.Equal(t, "", NumberCell(1.5).String())
}

func TestGridAt_OutOfBounds(t *testing.T) {
	g := Grid{
		{TextCell("a")},
		{TextCell("b"), TextCell("c")},
	}
	assert.Equal(t, "a", g.At(0, 0).String())
	assert.Equal(t, "c", g.At(1, 1).String())

	// Short rows and out-of-range coordinates read as empty.
	assert.True(t, g.At(0, 1).IsEmpty())
	assert.True(t, g.At(2, 0).IsEmpty())
	assert.True(t, g.At(-1, 0).IsEmpty())
	assert.True(t, g.At(0, -1).IsEmpty())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	assert.Panics(t, func() { r.Register(&XLSXReader{}) })
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	_, err := Open("balancete.csv")
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".csv", unsupported.Ext)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOpen_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "balancete.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "EMPRESA TESTE LTDA"))
	require.NoError(t, f.SetCellValue("Sheet1", "F1", "Período: 01/01/2025 à 31/12/2025"))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", "1"))
	require.NoError(t, f.SetCellValue("Sheet1", "G4", "1.000,00D"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	g, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, "EMPRESA TESTE LTDA", g.At(0, 0).String())
	assert.Equal(t, "Período: 01/01/2025 à 31/12/2025", g.At(0, 5).String())
	assert.Equal(t, "1", g.At(3, 0).String())
	assert.Equal(t, "1.000,00D", g.At(3, 6).String())
	assert.True(t, g.At(1, 0).IsEmpty())
}

func TestCandidate(t *testing.T) {
	for name, want := range map[string]bool{
		"jan.xlsx":          true,
		"Balancete Dez.XLS": true,
		"notas.txt":         false,
		".tmp.xls":          false,
		"~$jan.xlsx":        false,
	} {
		assert.Equal(t, want, Candidate(name), name)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fev.xlsx", "jan.xls", "notas.txt", ".tmp.xls"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "processed"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "fev.xlsx", files[0].Name)
	assert.Equal(t, "jan.xls", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "jan.xls"), files[1].Path)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.xls"), []byte("x"), 0o644))

	require.NoError(t, MarkProcessed(dir, "jan.xls"))

	_, err := os.Stat(filepath.Join(dir, "jan.xls"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	entries, err := os.ReadDir(filepath.Join(dir, "processed"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "_jan.xls")
}

func TestMarkProcessed_MissingFile(t *testing.T) {
	assert.Error(t, MarkProcessed(t.TempDir(), "ghost.xls"))
}
