package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// JSONWriter provides JSON export functionality
type JSONWriter struct {
	reportsDir string
}

// NewJSONWriter creates a new JSON writer rooted at the reports directory
func NewJSONWriter(reportsDir string) *JSONWriter {
	return &JSONWriter{reportsDir: reportsDir}
}

// WriteJSON writes v as indented JSON. The data goes to a temp file in
// the target directory first and is renamed into place, so a crashed
// export never leaves a half-written report behind.
func (w *JSONWriter) WriteJSON(filePath string, v interface{}) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing JSON file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".export-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	return nil
}

// resolvePath resolves a relative path into the reports directory
func (w *JSONWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.reportsDir, filePath)
}
