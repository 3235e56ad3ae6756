package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSVWriter(dir), dir
}

func TestNewCSVWriter(t *testing.T) {
	writer := NewCSVWriter("data/reports")

	assert.NotNil(t, writer)
	assert.Equal(t, "data/reports", writer.reportsDir)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupWriter(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"TrackingNumber", "TotalCharge", "Country"},
				Records: [][]string{
					{"1Z001", "8.40", "DE"},
					{"1Z002", "7.00", "FR"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "TrackingNumber,TotalCharge,Country", lines[0])
				assert.Equal(t, "1Z001,8.40,DE", lines[1])
				assert.Equal(t, "1Z002,7.00,FR", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"CountryCode", "TotalCost"},
				Records:   [][]string{{"DE", "55.50"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				// Check for UTF-8 BOM
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

				contentWithoutBOM := content[3:]
				lines := strings.Split(strings.TrimSpace(string(contentWithoutBOM)), "\n")
				assert.Equal(t, "CountryCode,TotalCost", lines[0])
				assert.Equal(t, "DE,55.50", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{
					{"Data1", "Data2"},
					{"Data3", "Data4"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 2) // only records, no headers
				assert.Equal(t, "Data1,Data2", lines[0])
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1) // only headers
				assert.Equal(t, "Col1,Col2", lines[0])
			},
		},
		{
			name:     "nested relative path creates directories",
			filePath: "rollups/nested.csv",
			options: WriteOptions{
				Headers: []string{"Period", "TotalCost"},
				Records: [][]string{{"2025-01", "17.00"}},
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.Contains(t, string(content), "2025-01,17.00")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			tt.validate(t, filepath.Join(tempDir, tt.filePath))
		})
	}
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	writer, tempDir := setupWriter(t)

	headers := []string{"CountryCode", "CountryName", "PackageCount"}
	records := [][]string{
		{"DE", "Germany", "3"},
		{"FR", "France", "1"},
	}

	err := writer.WriteSimpleCSV("simple_test.csv", headers, records)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tempDir, "simple_test.csv"))
	require.NoError(t, err)

	// WriteSimpleCSV always writes the BOM
	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "CountryCode,CountryName,PackageCount", lines[0])
	assert.Equal(t, "DE,Germany,3", lines[1])
	assert.Equal(t, "FR,France,1", lines[2])
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	writer, tempDir := setupWriter(t)

	err := writer.WriteSimpleCSV("append_test.csv", []string{"Col1", "Col2"}, [][]string{
		{"Initial1", "Initial2"},
	})
	require.NoError(t, err)

	err = writer.AppendToCSV("append_test.csv", [][]string{
		{"Appended1", "Appended2"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tempDir, "append_test.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 3) // header + initial + appended
	assert.Equal(t, "Col1,Col2", lines[0])
	assert.Equal(t, "Initial1,Initial2", lines[1])
	assert.Equal(t, "Appended1,Appended2", lines[2])
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer := NewCSVWriter(filepath.Join("data", "reports"))

	absolute := filepath.Join(t.TempDir(), "report.csv")
	assert.Equal(t, absolute, writer.resolvePath(absolute))

	assert.Equal(t, filepath.Join("data", "reports", "report.csv"), writer.resolvePath("report.csv"))
	assert.Equal(t, filepath.Join("data", "reports", "rollups", "trends.csv"), writer.resolvePath(filepath.Join("rollups", "trends.csv")))
}

func TestStreamWriter(t *testing.T) {
	writer, tempDir := setupWriter(t)

	stream, err := writer.CreateStreamWriter("stream_test.csv", []string{"TrackingNumber", "TotalCharge"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"1Z001", "8.40"}))
	require.NoError(t, stream.WriteRecord([]string{"1Z002", "7.00"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(filepath.Join(tempDir, "stream_test.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
	lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "TrackingNumber,TotalCharge", lines[0])
	assert.Equal(t, "1Z001,8.40", lines[1])
	assert.Equal(t, "1Z002,7.00", lines[2])
}
