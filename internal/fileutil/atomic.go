// Package fileutil writes converted hand histories to disk.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutputSuffix is appended to the input base name for converted files.
const DefaultOutputSuffix = ".pokerstars.txt"

// WriteFileAtomic writes data to a sibling temp file and renames it over
// filename, so hand-replay tools polling the directory never pick up a
// half-written conversion.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	committed = true
	return nil
}

// OutputPath derives where the conversion of input is written: the input
// base name without its extension plus suffix, inside outDir (or next to the
// input when outDir is empty).
func OutputPath(input, outDir, suffix string) string {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, base+suffix)
}

// IsOutputFile reports whether name looks like a file this tool produced, so
// directory scans do not feed conversions back in as input.
func IsOutputFile(name, suffix string) bool {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	return strings.HasSuffix(name, suffix) || strings.Contains(filepath.Base(name), ".tmp.")
}
