// Package exporter writes analysis results to files.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// JSONWriter: Indented JSON output written through a temp file rename so
// a crashed export never leaves a half-written report behind.
//
// ReportExporter: Converts normalized charge lines, shipment tables and
// rollup rows into CSV report files.
//
// WorkbookExporter: Renders the full analysis report as one XLSX
// workbook with a sheet per rollup.
//
// Example usage:
//
//	// Export the shipment table
//	reports := exporter.NewReportExporter("data/reports")
//	err := reports.ExportShipments(shipments, "shipments.csv")
//
//	// Export every rollup as CSV files
//	err = reports.ExportRollups(report, "rollups")
//
//	// Or as a single workbook
//	workbook := exporter.NewWorkbookExporter("data/reports")
//	err = workbook.ExportReport(report, "ups_invoice_report.xlsx")
package exporter
