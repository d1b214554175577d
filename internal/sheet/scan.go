package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// processedDir is the subdirectory files move to after ingestion.
const processedDir = "processed"

// FileInfo describes a spreadsheet in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Candidate reports whether a file name looks like a balancete export.
// Hidden files and office lock files ("~$...") are not candidates.
func Candidate(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xls" || ext == ".xlsx"
}

// Scan returns balancete candidates (*.xls, *.xlsx) in dir, skipping
// hidden files and subdirectories.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !Candidate(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/, prefixing a
// timestamp so re-imports of the same export never collide.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, time.Now().Format("20060102T150405")+"_"+fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
