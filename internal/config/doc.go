// Package config provides centralized configuration management for the UPS
// invoice analyzer. It handles loading configuration from multiple sources,
// validation, and a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern UPS_* for namespacing:
//
//	UPS_SERVER_PORT=8080
//	UPS_DATA_INVOICES_DIR=/srv/billing/invoices
//	UPS_LOGGING_LEVEL=debug
//	UPS_TELEMETRY_ENABLED=false
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	if err != nil { ... }
//	reportPath := paths.GetReportPath("summary.json")
package config
