package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"upscli/internal/analytics"
)

// WorkbookExporter renders the full analysis report as one XLSX
// workbook with a sheet per rollup.
type WorkbookExporter struct {
	reportsDir string
}

// NewWorkbookExporter creates a new workbook exporter rooted at the
// reports directory
func NewWorkbookExporter(reportsDir string) *WorkbookExporter {
	return &WorkbookExporter{reportsDir: reportsDir}
}

// reportSheet is one workbook sheet holding one or more table sections.
type reportSheet struct {
	name     string
	sections []sheetSection
}

// sheetSection is one titled table block within a sheet. Sections after
// the first are separated by a blank row.
type sheetSection struct {
	title   string
	headers []string
	rows    [][]string
}

// ExportReport writes the report as an XLSX workbook
func (w *WorkbookExporter) ExportReport(report *analytics.Report, outputPath string) error {
	fullPath := w.resolvePath(outputPath)

	slog.Info("Writing XLSX report",
		slog.String("file_path", outputPath),
		slog.String("full_path", fullPath))

	// Ensure directory exists
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range reportSheets(report) {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	// Drop the default sheet and open the workbook on Summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex("Summary")
	if err != nil {
		return fmt.Errorf("failed to find summary sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func reportSheets(report *analytics.Report) []reportSheet {
	return []reportSheet{
		{
			name: "Summary",
			sections: []sheetSection{
				{headers: []string{"Metric", "Value"}, rows: summaryRows(report.Summary)},
			},
		},
		{
			name: "Cost Breakdown",
			sections: []sheetSection{
				{headers: costBreakdownHeaders(), rows: costBreakdownRows(report.CostBreakdown)},
			},
		},
		{
			name: "Destinations",
			sections: []sheetSection{
				{headers: destinationHeaders(), rows: destinationRows(report.Destinations)},
			},
		},
		{
			name: "Trends",
			sections: []sheetSection{
				{headers: trendHeaders(), rows: trendRows(report.Trends)},
			},
		},
		{
			name: "Services",
			sections: []sheetSection{
				{headers: serviceHeaders(), rows: serviceRows(report.Services)},
			},
		},
		{
			name: "Weights",
			sections: []sheetSection{
				{title: "Summary", headers: []string{"Metric", "Value"}, rows: weightsSummaryRows(report.Weights.Summary)},
				{title: "Distribution", headers: weightBucketHeaders(), rows: weightBucketRows(report.Weights.Distribution)},
				{title: "Packages", headers: weightDetailHeaders(), rows: weightDetailRows(report.Weights.Detail)},
			},
		},
		{
			name: "Returns",
			sections: []sheetSection{
				{title: "Summary", headers: []string{"Metric", "Value"}, rows: returnsSummaryRows(report.Returns.Summary)},
				{title: "By Reason", headers: returnReasonHeaders(), rows: returnReasonRows(report.Returns.ByReason)},
				{title: "By Origin Country", headers: returnCountryHeaders(), rows: returnCountryRows(report.Returns.ByCountry)},
			},
		},
		{
			name: "Duties",
			sections: []sheetSection{
				{title: "Summary", headers: []string{"Metric", "Value"}, rows: dutiesSummaryRows(report.Duties.Summary)},
				{title: "By Charge Type", headers: dutyTypeHeaders(), rows: dutyTypeRows(report.Duties.ByChargeType)},
				{title: "By Country", headers: dutyCountryHeaders(), rows: dutyCountryRows(report.Duties.ByCountry)},
				{title: "Shipments", headers: dutyDetailHeaders(), rows: dutyDetailRows(report.Duties.Detail)},
			},
		},
		{
			name: "Accessorials",
			sections: []sheetSection{
				{title: "Summary", headers: []string{"Metric", "Value"}, rows: accessorialsSummaryRows(report.Accessorials.Summary)},
				{title: "By Charge Code", headers: accessorialCodeHeaders(), rows: accessorialCodeRows(report.Accessorials.ByChargeCode)},
				{title: "By Country", headers: accessorialCountryHeaders(), rows: accessorialCountryRows(report.Accessorials.ByCountry)},
				{title: "Monthly Trend", headers: accessorialTrendHeaders(), rows: accessorialTrendRows(report.Accessorials.Trends)},
			},
		},
		{
			name: "Top Expenses",
			sections: []sheetSection{
				{headers: topExpenseHeaders(), rows: topExpenseRows(report.TopExpenses)},
			},
		},
	}
}

func weightsSummaryRows(summary analytics.WeightsSummary) [][]string {
	return [][]string{
		{"TotalActualWeightKg", formatAmount(summary.TotalActualWeight)},
		{"TotalBilledWeightKg", formatAmount(summary.TotalBilledWeight)},
		{"AvgActualWeightKg", formatAmount(summary.AvgActualWeight)},
		{"AvgBilledWeightKg", formatAmount(summary.AvgBilledWeight)},
		{"WeightPremiumPercent", formatAmount(summary.WeightPremium)},
		{"PackagesWithDimWeight", formatCount(summary.PackagesWithDimWeight)},
	}
}

func returnsSummaryRows(summary analytics.ReturnsSummary) [][]string {
	return [][]string{
		{"TotalReturns", formatCount(summary.TotalReturns)},
		{"TotalReturnCost", formatAmount(summary.TotalReturnCost)},
		{"ReturnRatePercent", formatAmount(summary.ReturnRate)},
		{"AvgReturnCost", formatAmount(summary.AvgReturnCost)},
	}
}

func dutiesSummaryRows(summary analytics.DutiesSummary) [][]string {
	return [][]string{
		{"TotalCost", formatAmount(summary.TotalCost)},
		{"ShipmentCount", formatCount(summary.ShipmentCount)},
		{"BrokerageCost", formatAmount(summary.BrokerageCost)},
		{"CustomsCost", formatAmount(summary.CustomsCost)},
		{"OtherCost", formatAmount(summary.OtherCost)},
		{"AvgCostPerShipment", formatAmount(summary.AvgCostPerShipment)},
	}
}

func accessorialsSummaryRows(summary analytics.AccessorialsSummary) [][]string {
	return [][]string{
		{"TotalCost", formatAmount(summary.TotalCost)},
		{"ChargeCount", formatCount(summary.ChargeCount)},
		{"ShipmentCount", formatCount(summary.ShipmentCount)},
		{"ResidentialCost", formatAmount(summary.ResidentialCost)},
		{"SurgeCost", formatAmount(summary.SurgeCost)},
		{"AreaSurchargeCost", formatAmount(summary.AreaSurchargeCost)},
		{"AvgPerShipment", formatAmount(summary.AvgPerShipment)},
	}
}

func writeSheet(f *excelize.File, sheet reportSheet) error {
	row := 1
	for i, section := range sheet.sections {
		if i > 0 {
			row++
		}

		if section.title != "" {
			if err := setCell(f, sheet.name, 1, row, section.title); err != nil {
				return err
			}
			row++
		}

		if err := setRow(f, sheet.name, row, section.headers); err != nil {
			return err
		}
		row++

		for _, values := range section.rows {
			if err := setRow(f, sheet.name, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		if err := setCell(f, sheet, col+1, row, value); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to name cell: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s on %s: %w", cell, sheet, err)
	}
	return nil
}

// resolvePath resolves a relative path into the reports directory
func (w *WorkbookExporter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.reportsDir, filePath)
}
