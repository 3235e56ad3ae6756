// Package services implements the business logic layer between the HTTP
// handlers, the CLI commands, and the data packages.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate business rules
//	4. Cross-cutting concerns (logging, metrics) handled once
//
// # Available Services
//
// The package provides these core services:
//
//	- InvoiceService: owns the loaded invoice dataset and serves every
//	  analytical read through an analytics.Analyzer
//	- HealthService: reports process liveness and dataset state
//
// # Dataset Lifecycle
//
// InvoiceService.Load parses the configured invoices directory and
// swaps in a freshly built analyzer under a write lock:
//
//	svc := services.NewInvoiceService(cfg, logger)
//	if _, err := svc.Load(ctx); err != nil {
//	    return err
//	}
//	summary, err := svc.Summary(ctx)
//
// Each analyzer is immutable once built, so readers holding a reference
// across a reload keep a consistent view of the old dataset.
//
// # Error Handling
//
// Accessors return ErrNoDataset until the first successful Load. Empty
// rollups are not errors; they come back as explicitly tagged empty
// results so callers can distinguish "no matching data" from "nothing
// loaded yet".
package services
