package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ",", cfg.Data.Delimiter)
	assert.Equal(t, "auto", cfg.Data.Encoding)
	assert.Equal(t, 4, cfg.Data.MaxParallelFiles)
	assert.Equal(t, 10, cfg.Data.TopExpensesLimit)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"UPS_SERVER_PORT":       "9191",
		"UPS_LOGGING_LEVEL":     "debug",
		"UPS_DATA_INVOICES_DIR": "/tmp/invoices",
		"UPS_DATA_DELIMITER":    ";",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/invoices", cfg.Data.InvoicesDir)
	assert.Equal(t, ";", cfg.Data.Delimiter)
	// Untouched fields keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "file overrides defaults",
			yaml: `
server:
  port: 9090
data:
  invoices_dir: /srv/invoices
  max_parallel_files: 8
logging:
  level: warn
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "/srv/invoices", cfg.Data.InvoicesDir)
				assert.Equal(t, 8, cfg.Data.MaxParallelFiles)
				assert.Equal(t, "warn", cfg.Logging.Level)
				// Defaults survive for untouched fields
				assert.Equal(t, ",", cfg.Data.Delimiter)
			},
		},
		{
			name: "invalid port rejected",
			yaml: `
server:
  port: 70000
`,
			wantErr: true,
		},
		{
			name: "multi character delimiter rejected",
			yaml: `
data:
  delimiter: ",,"
`,
			wantErr: true,
		},
		{
			name: "unknown logging format coerced to json",
			yaml: `
logging:
  format: xml
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "out of range sample ratio rejected",
			yaml: `
telemetry:
  sample_ratio: 1.5
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			cfg, err := LoadFromFile(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate_Coercions(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "syslog"
	cfg.Data.MaxParallelFiles = -2
	cfg.Data.TopExpensesLimit = 0
	cfg.Data.Encoding = ""

	require.NoError(t, cfg.validate())

	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, 1, cfg.Data.MaxParallelFiles)
	assert.Equal(t, 10, cfg.Data.TopExpensesLimit)
	assert.Equal(t, "auto", cfg.Data.Encoding)
}

func TestValidate_RejectsUnknownEncoding(t *testing.T) {
	cfg := Default()
	cfg.Data.Encoding = "ebcdic"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}
