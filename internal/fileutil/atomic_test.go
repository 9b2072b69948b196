package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Equal(t, name, entry.Name(), "unexpected file in directory")
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "report.toml")

	require.NoError(t, WriteAtomic(testFile, 0o644, writeString("rounds = 10\n")))

	data, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "rounds = 10\n", string(data))

	info, err := os.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	assertOnlyFile(t, tmpDir, "report.toml")
}

func TestWriteAtomicOverwrite(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "report.toml")

	require.NoError(t, WriteAtomic(testFile, 0o644, writeString("initial")))
	require.NoError(t, WriteAtomic(testFile, 0o644, writeString("updated content")))

	data, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "updated content", string(data))
}

func TestWriteAtomicFailedWriteKeepsOldFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "report.toml")
	require.NoError(t, WriteAtomic(testFile, 0o644, writeString("old")))

	boom := errors.New("boom")
	err := WriteAtomic(testFile, 0o644, func(w io.Writer) error {
		fmt.Fprint(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assertOnlyFile(t, tmpDir, "report.toml")
}

func TestWriteAtomicMissingDir(t *testing.T) {
	t.Parallel()

	err := WriteAtomic(filepath.Join(t.TempDir(), "missing", "report.toml"), 0o644, writeString("x"))
	assert.Error(t, err)
}
