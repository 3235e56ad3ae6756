// Package cmd - summary command
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"upscli/internal/infrastructure"
	"upscli/internal/services"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary [dir]",
	Short: "Print high-level cost statistics for billing exports",
	Long: `Normalize the billing CSV exports in a directory and print the
dataset summary.

Examples:
  upsbill summary
  upsbill summary ./data/invoices`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dir := appConfig.Data.InvoicesDir
	if len(args) > 0 {
		dir = args[0]
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("invoice directory does not exist: %s", dir)
	}

	cfg := *appConfig
	cfg.Data.InvoicesDir = dir
	svc := services.NewInvoiceService(&cfg, infrastructure.GetLogger())

	result, err := svc.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load invoices: %w", err)
	}
	for _, failure := range result.Failures {
		fmt.Printf("  failed: %s: %s\n", failure.File, failure.Error)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Invoices:            %d\n", summary.TotalInvoices)
	fmt.Printf("Packages:            %d\n", summary.TotalPackages)
	fmt.Printf("Total cost:          %s %s\n", summary.TotalCost.StringFixed(2), summary.Currency)
	fmt.Printf("  Freight:           %s\n", summary.TotalFreight.StringFixed(2))
	fmt.Printf("  Fuel surcharge:    %s\n", summary.TotalFuelSurcharge.StringFixed(2))
	fmt.Printf("  Tax:               %s\n", summary.TotalTax.StringFixed(2))
	fmt.Printf("  Accessorials:      %s\n", summary.TotalAccessorial.StringFixed(2))
	fmt.Printf("Avg cost/package:    %s\n", summary.AvgCostPerPackage.StringFixed(2))
	fmt.Printf("Total weight:        %s kg\n", summary.TotalWeightKg.StringFixed(2))
	fmt.Printf("Return rate:         %s%%\n", summary.ReturnRate.StringFixed(2))
	fmt.Printf("Top destination:     %s\n", summary.TopDestination)
	if summary.DateRange != nil {
		fmt.Printf("Date range:          %s to %s\n", summary.DateRange.Start, summary.DateRange.End)
	}

	fmt.Printf("\nParsed %d files, %d charge lines, %d skipped\n", result.Files, result.Records, result.Skipped)
	return nil
}
