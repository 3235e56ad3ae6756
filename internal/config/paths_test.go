package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathsWithBase(t *testing.T) {
	base := t.TempDir()
	paths := NewPathsWithBase(base)

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "invoices"), paths.InvoicesDir)
	assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths := NewPathsWithBase(t.TempDir())

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.InvoicesDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, "directory %s should exist", dir)
		assert.True(t, info.IsDir())
	}

	// Second call is a no-op, not an error
	require.NoError(t, paths.EnsureDirectories())
}

func TestPathHelpers(t *testing.T) {
	paths := NewPathsWithBase("/base")

	assert.Equal(t, filepath.Join("/base", "data", "invoices", "week1.csv"), paths.GetInvoicePath("week1.csv"))
	assert.Equal(t, filepath.Join("/base", "data", "reports", "summary.json"), paths.GetReportPath("summary.json"))
	assert.Equal(t, filepath.Join("/base", "logs", "app.log"), paths.GetLogPath("app.log"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "present.csv")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	assert.True(t, FileExists(existing))
	assert.False(t, FileExists(filepath.Join(dir, "absent.csv")))
}
