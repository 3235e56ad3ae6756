package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file paths in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	InvoicesDir   string
	ReportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable
// location. Paths are always relative to the executable directory, never
// the current working directory, so the tools behave the same regardless
// of where they are invoked from.
//
// Directory structure:
//
//	<exe dir>/
//	  ├── data/
//	  │   ├── invoices/   (raw UPS billing CSV exports)
//	  │   └── reports/    (generated CSV/JSON/XLSX reports)
//	  └── logs/           (application logs)
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return NewPathsWithBase(filepath.Dir(exe)), nil
}

// NewPathsWithBase builds the path set under an explicit base directory.
// Tests and the CLI --data-dir override use this directly.
func NewPathsWithBase(base string) *Paths {
	dataDir := filepath.Join(base, "data")

	return &Paths{
		ExecutableDir: base,
		DataDir:       dataDir,
		InvoicesDir:   filepath.Join(dataDir, "invoices"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.InvoicesDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetInvoicePath returns the full path for a raw invoice file
func (p *Paths) GetInvoicePath(filename string) string {
	return filepath.Join(p.InvoicesDir, filename)
}

// GetReportPath returns the full path for a generated report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved paths for troubleshooting
func (p *Paths) LogPathResolution() {
	slog.Debug("Resolved application paths",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("data_dir", p.DataDir),
		slog.String("invoices_dir", p.InvoicesDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
