package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteZip_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle", "site.zip")
	files := map[string]string{
		"index.html": "<html></html>",
		"styles.css": "body{}",
		"script.js":  "console.log('hi');",
	}

	require.NoError(t, WriteZip(path, files))

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.File, 3)
	got := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		got[f.Name] = string(content)
	}
	assert.Equal(t, files, got)
}

func TestWriteZip_DeterministicBytes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.txt": "bee",
		"a.txt": "ay",
		"c.txt": "sea",
	}

	pathA := filepath.Join(dir, "a.zip")
	pathB := filepath.Join(dir, "b.zip")
	require.NoError(t, WriteZip(pathA, files))
	require.NoError(t, WriteZip(pathB, files))

	bytesA, err := os.ReadFile(pathA)
	require.NoError(t, err)
	bytesB, err := os.ReadFile(pathB)
	require.NoError(t, err)

	assert.Equal(t, bytesA, bytesB)
}

func TestWriteZip_SortedEntryOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorted.zip")
	require.NoError(t, WriteZip(path, map[string]string{"z": "1", "a": "2", "m": "3"}))

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a", "m", "z"}, names)
}
