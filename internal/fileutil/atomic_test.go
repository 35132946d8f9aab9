package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "session.pokerstars.txt")
	content := []byte("PokerStars Hand #1: Hold'em No Limit ($0.05/$0.10 USD) - 2023-12-05 02:50:49 UTC")

	require.NoError(t, WriteFileAtomic(target, content, 0o644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should not remain")
	assert.Equal(t, "session.pokerstars.txt", entries[0].Name())
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFileAtomic(target, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(target, []byte("second"), 0o644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteFileAtomicCreatesOutputDir(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "converted", "nested", "out.txt")
	require.NoError(t, WriteFileAtomic(target, []byte("data"), 0o644))
	assert.FileExists(t, target)
}

func TestWriteFileAtomicParentIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFileAtomic(filepath.Join(blocker, "out.txt"), []byte("data"), 0o644)
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		outDir string
		suffix string
		want   string
	}{
		{"next to input", "/data/hands.ohh", "", "", "/data/hands.pokerstars.txt"},
		{"explicit dir", "/data/hands.json", "/out", "", "/out/hands.pokerstars.txt"},
		{"custom suffix", "/data/table-1.txt", "/out", ".ps", "/out/table-1.ps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), OutputPath(filepath.FromSlash(tt.input), filepath.FromSlash(tt.outDir), tt.suffix))
		})
	}
}

func TestIsOutputFile(t *testing.T) {
	assert.True(t, IsOutputFile("hands.pokerstars.txt", ""))
	assert.True(t, IsOutputFile("hands.pokerstars.txt.tmp.1234", ""))
	assert.False(t, IsOutputFile("hands.txt", ""))
	assert.True(t, IsOutputFile("hands.ps", ".ps"))
}
