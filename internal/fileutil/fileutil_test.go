package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer"), 0o644))

	err := WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "fresh")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))

	if runtime.GOOS != "windows" {
		newPath := filepath.Join(filepath.Dir(path), "new.txt")
		require.NoError(t, WriteFile(newPath, func(io.Writer) error { return nil }))
		info, err := os.Stat(newPath)
		require.NoError(t, err)
		assert.Equal(t, OwnerReadWrite, info.Mode().Perm())
	}
}

func TestWriteFileErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		err := WriteFile(filepath.Join(t.TempDir(), "missing", "report.txt"), func(io.Writer) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not create")
	})

	t.Run("write error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		err := WriteFile(filepath.Join(t.TempDir(), "report.txt"), func(io.Writer) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}
