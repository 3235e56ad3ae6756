// Package cmd - report command
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"upscli/internal/analytics"
	"upscli/internal/exporter"
	"upscli/internal/infrastructure"
	"upscli/internal/services"
)

var (
	reportFormat      string
	reportOut         string
	reportPeriod      string
	reportTop         int
	reportFrom        string
	reportTo          string
	reportCountries   []string
	reportServices    []string
	reportReturnsOnly bool
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Generate cost rollup reports from billing exports",
	Long: `Normalize the billing CSV exports in a directory and write the full
set of cost rollups.

The directory defaults to the configured invoices directory. The csv
format writes one file per rollup, json writes a single report.json and
xlsx writes a styled workbook.

Examples:
  upsbill report ./data/invoices
  upsbill report --format xlsx --out ./reports
  upsbill report --from 2025-01-01 --to 2025-03-31 --country DE`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "csv", "output format (csv, json, xlsx)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output directory (default is the configured reports directory)")
	reportCmd.Flags().StringVar(&reportPeriod, "period", "month", "trend bucket size (week, month)")
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "number of top-expense shipments (default from config)")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "only include charges on or after this date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "only include charges on or before this date (YYYY-MM-DD)")
	reportCmd.Flags().StringSliceVar(&reportCountries, "country", nil, "receiver country filter, repeatable")
	reportCmd.Flags().StringSliceVar(&reportServices, "service", nil, "service code filter, repeatable")
	reportCmd.Flags().BoolVar(&reportReturnsOnly, "returns-only", false, "only include return shipments")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	period := analytics.Period(reportPeriod)
	if period != analytics.PeriodWeek && period != analytics.PeriodMonth {
		return fmt.Errorf("invalid period %q, want week or month", reportPeriod)
	}

	outDir := reportOut
	if outDir == "" {
		outDir = appConfig.Data.ReportsDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	analyzer, err := loadAnalyzer(ctx, args)
	if err != nil {
		return err
	}

	top := reportTop
	if top <= 0 {
		top = appConfig.Data.TopExpensesLimit
	}
	report := analyzer.Report(analytics.ReportOptions{
		Period:           period,
		TopExpensesLimit: top,
	})

	switch reportFormat {
	case "csv":
		if err := exporter.NewReportExporter(outDir).ExportRollups(report, ""); err != nil {
			return fmt.Errorf("failed to write CSV rollups: %w", err)
		}
	case "json":
		if err := exporter.NewJSONWriter(outDir).WriteJSON("report.json", report); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
	case "xlsx":
		if err := exporter.NewWorkbookExporter(outDir).ExportReport(report, "report.xlsx"); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q, want csv, json or xlsx", reportFormat)
	}

	fmt.Printf("Report written to %s in %s\n", outDir, time.Since(start).Round(time.Millisecond))
	return nil
}

// loadAnalyzer parses the invoice directory from args (or the configured
// default), prints load progress and returns an analyzer restricted by
// the filter flags.
func loadAnalyzer(ctx context.Context, args []string) (*analytics.Analyzer, error) {
	dir := appConfig.Data.InvoicesDir
	if len(args) > 0 {
		dir = args[0]
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("invoice directory does not exist: %s", dir)
	}

	cfg := *appConfig
	cfg.Data.InvoicesDir = dir
	svc := services.NewInvoiceService(&cfg, infrastructure.GetLogger())

	fmt.Printf("Scanning %s...\n", dir)
	result, err := svc.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	fmt.Printf("Parsed %d files (%d charge lines, %d shipments)\n", result.Files, result.Records, result.Shipments)
	for _, failure := range result.Failures {
		fmt.Printf("  failed: %s: %s\n", failure.File, failure.Error)
	}

	filter, err := buildFilter()
	if err != nil {
		return nil, err
	}
	analyzer, err := svc.Filtered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to apply filter: %w", err)
	}
	return analyzer, nil
}

func buildFilter() (analytics.Filter, error) {
	var f analytics.Filter

	if reportFrom != "" {
		t, err := time.Parse("2006-01-02", reportFrom)
		if err != nil {
			return f, fmt.Errorf("invalid --from date %q, want YYYY-MM-DD", reportFrom)
		}
		f.StartDate = &t
	}
	if reportTo != "" {
		t, err := time.Parse("2006-01-02", reportTo)
		if err != nil {
			return f, fmt.Errorf("invalid --to date %q, want YYYY-MM-DD", reportTo)
		}
		f.EndDate = &t
	}
	f.Countries = reportCountries
	f.Services = reportServices
	f.ReturnsOnly = reportReturnsOnly

	return f, nil
}
