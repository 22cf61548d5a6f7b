package archive_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/napcet/3mf-reader/core/archive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestContainer creates a zip file with the given entries.
func writeTestContainer(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.3mf")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return path
}

func TestOpen_NotFound(t *testing.T) {
	_, err := archive.Open(filepath.Join(t.TempDir(), "missing.3mf"))
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestOpen_BadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.3mf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip"), 0o644))

	_, err := archive.Open(path)
	assert.ErrorIs(t, err, archive.ErrBadFormat)
}

func TestReadEntry(t *testing.T) {
	path := writeTestContainer(t, map[string]string{
		"3D/3dmodel.model": "<model/>",
	})

	c, err := archive.Open(path)
	require.NoError(t, err)
	defer c.Close()

	data, err := c.ReadEntry("3D/3dmodel.model")
	require.NoError(t, err)
	assert.Equal(t, "<model/>", string(data))

	_, err = c.ReadEntry("Metadata/project_settings.config")
	assert.ErrorIs(t, err, archive.ErrMissingEntry)
}

func TestList_SortedByPrefix(t *testing.T) {
	path := writeTestContainer(t, map[string]string{
		"Metadata/plate_2.json": "{}",
		"Metadata/plate_1.json": "{}",
		"3D/3dmodel.model":      "<model/>",
	})

	c, err := archive.Open(path)
	require.NoError(t, err)
	defer c.Close()

	names := c.List("Metadata/plate_")
	assert.Equal(t, []string{"Metadata/plate_1.json", "Metadata/plate_2.json"}, names)

	assert.Empty(t, c.List("Thumbnails/"))
}
