package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "invoice_b.csv", "b")
	writeFile(t, dir, "invoice_a.CSV", "a")
	writeFile(t, dir, "notes.txt", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	d := NewDiscovery(dir)
	files, err := d.FindCSVFiles(".")
	require.NoError(t, err)

	require.Len(t, files, 2)
	// Sorted by name, case preserved.
	assert.Equal(t, "invoice_a.CSV", files[0].Name)
	assert.Equal(t, "invoice_b.csv", files[1].Name)
	for _, f := range files {
		assert.False(t, f.IsDir)
		assert.Positive(t, f.Size)
	}
}

func TestFindCSVFiles_AbsoluteDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "invoice.csv", "data")

	d := NewDiscovery("/nonexistent-base")
	files, err := d.FindCSVFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "invoice.csv"), files[0].Path)
}

func TestFindCSVFiles_MissingDir(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindCSVFiles("does-not-exist")
	require.Error(t, err)
}

func TestFindReportFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "summary.csv", "s")
	writeFile(t, dir, "invoice_report.xlsx", "x")
	writeFile(t, dir, "rollups.json", "{}")
	writeFile(t, dir, "readme.md", "m")

	d := NewDiscovery(dir)
	files, err := d.FindReportFiles(".")
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"summary.csv", "invoice_report.xlsx", "rollups.json"}, names)
}

func TestFindReportFiles_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.csv", "a")
	newPath := filepath.Join(dir, "new.csv")
	writeFile(t, dir, "new.csv", "b")
	require.NoError(t, os.Chtimes(newPath, time.Now(), time.Now().Add(time.Hour)))

	d := NewDiscovery(dir)
	files, err := d.FindReportFiles(".")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "new.csv", files[0].Name)
	assert.Equal(t, "old.csv", files[1].Name)
}
