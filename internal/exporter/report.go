package exporter

import (
	"fmt"
	"path/filepath"

	"upscli/internal/analytics"
	"upscli/pkg/contracts/domain"
)

// ReportExporter converts normalized charge lines, shipment tables and
// rollup rows into CSV report files.
type ReportExporter struct {
	csvWriter *CSVWriter
}

// NewReportExporter creates a new report exporter rooted at the reports
// directory
func NewReportExporter(reportsDir string) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(reportsDir),
	}
}

// ExportChargeLines writes the normalized charge lines to a CSV file
func (e *ReportExporter) ExportChargeLines(records []domain.ChargeRecord, outputPath string) error {
	var csvRecords [][]string
	for _, record := range records {
		csvRecords = append(csvRecords, chargeLineToCSVRow(record))
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, chargeLineHeaders(), csvRecords); err != nil {
		return fmt.Errorf("failed to write charge lines: %w", err)
	}
	return nil
}

// ExportChargeLinesStreaming writes charge lines through the stream
// writer, for datasets too large to buffer as one slice of rows
func (e *ReportExporter) ExportChargeLinesStreaming(records []domain.ChargeRecord, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, chargeLineHeaders())
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for _, record := range records {
		if err := stream.WriteRecord(chargeLineToCSVRow(record)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// ExportShipments writes the folded shipment table to a CSV file
func (e *ReportExporter) ExportShipments(shipments []domain.Shipment, outputPath string) error {
	var csvRecords [][]string
	for _, shipment := range shipments {
		csvRecords = append(csvRecords, shipmentToCSVRow(shipment))
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, shipmentHeaders(), csvRecords); err != nil {
		return fmt.Errorf("failed to write shipments: %w", err)
	}
	return nil
}

// ExportRollups writes every rollup table of the report as CSV files in
// outputDir. A relative outputDir lands inside the reports directory.
func (e *ReportExporter) ExportRollups(report *analytics.Report, outputDir string) error {
	for _, table := range rollupTables(report) {
		path := filepath.Join(outputDir, table.filename)
		if err := e.csvWriter.WriteSimpleCSV(path, table.headers, table.rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", table.filename, err)
		}
	}
	return nil
}

// rollupTable is one exportable table of the report: a CSV file in the
// rollup dump and a row block in the workbook.
type rollupTable struct {
	filename string
	headers  []string
	rows     [][]string
}

func rollupTables(report *analytics.Report) []rollupTable {
	return []rollupTable{
		{filename: "summary.csv", headers: []string{"Metric", "Value"}, rows: summaryRows(report.Summary)},
		{filename: "cost_breakdown.csv", headers: costBreakdownHeaders(), rows: costBreakdownRows(report.CostBreakdown)},
		{filename: "destinations.csv", headers: destinationHeaders(), rows: destinationRows(report.Destinations)},
		{filename: "trends.csv", headers: trendHeaders(), rows: trendRows(report.Trends)},
		{filename: "services.csv", headers: serviceHeaders(), rows: serviceRows(report.Services)},
		{filename: "weights_distribution.csv", headers: weightBucketHeaders(), rows: weightBucketRows(report.Weights.Distribution)},
		{filename: "weights_detail.csv", headers: weightDetailHeaders(), rows: weightDetailRows(report.Weights.Detail)},
		{filename: "returns_by_reason.csv", headers: returnReasonHeaders(), rows: returnReasonRows(report.Returns.ByReason)},
		{filename: "returns_by_country.csv", headers: returnCountryHeaders(), rows: returnCountryRows(report.Returns.ByCountry)},
		{filename: "duties_by_charge_type.csv", headers: dutyTypeHeaders(), rows: dutyTypeRows(report.Duties.ByChargeType)},
		{filename: "duties_by_country.csv", headers: dutyCountryHeaders(), rows: dutyCountryRows(report.Duties.ByCountry)},
		{filename: "duties_detail.csv", headers: dutyDetailHeaders(), rows: dutyDetailRows(report.Duties.Detail)},
		{filename: "accessorials_by_charge_code.csv", headers: accessorialCodeHeaders(), rows: accessorialCodeRows(report.Accessorials.ByChargeCode)},
		{filename: "accessorials_by_country.csv", headers: accessorialCountryHeaders(), rows: accessorialCountryRows(report.Accessorials.ByCountry)},
		{filename: "accessorials_trends.csv", headers: accessorialTrendHeaders(), rows: accessorialTrendRows(report.Accessorials.Trends)},
		{filename: "top_expenses.csv", headers: topExpenseHeaders(), rows: topExpenseRows(report.TopExpenses)},
	}
}

func chargeLineHeaders() []string {
	return []string{
		"TrackingNumber", "InvoiceNumber", "InvoiceDate", "ShipmentDate",
		"ChargeCategory", "ChargeCategoryName", "ChargeCode", "ChargeDescription",
		"ServiceCode", "ServiceName", "ShipmentType", "ShipmentSubtype",
		"ActualWeightKg", "BilledWeightKg", "DiscountAmount", "NetAmount",
		"TotalCharge", "Currency", "SenderCountry", "RecipientCity",
		"RecipientCountry", "IsReturn", "SourceFile",
	}
}

func chargeLineToCSVRow(record domain.ChargeRecord) []string {
	return []string{
		record.TrackingNumber,
		record.InvoiceNumber,
		formatDate(record.InvoiceDate),
		formatDate(record.ShipmentDate),
		record.ChargeCategory,
		record.ChargeCategoryName,
		record.ChargeCode,
		record.ChargeDescription,
		record.ServiceCode,
		record.ServiceName,
		record.ShipmentType,
		record.ShipmentSubtype,
		formatAmount(record.ActualWeight),
		formatAmount(record.BilledWeight),
		formatAmount(record.DiscountAmount),
		formatAmount(record.NetAmount),
		formatAmount(record.TotalCharge),
		record.Currency,
		record.SenderCountry,
		record.RecipientCity,
		record.RecipientCountry,
		formatBool(record.IsReturn),
		record.SourceFile,
	}
}

func shipmentHeaders() []string {
	return []string{
		"TrackingNumber", "InvoiceNumber", "ShipmentDate", "OrderReference",
		"ServiceCode", "ServiceName", "ActualWeightKg", "BilledWeightKg",
		"SenderName", "SenderCity", "SenderCountry", "RecipientName",
		"RecipientCompany", "RecipientCity", "RecipientCountry",
		"ShipmentType", "IsReturn", "GoodsDescription", "DiscountAmount",
		"NetAmount", "TotalCharge", "LineCount", "SourceFile",
	}
}

func shipmentToCSVRow(shipment domain.Shipment) []string {
	return []string{
		shipment.TrackingNumber,
		shipment.InvoiceNumber,
		formatDate(shipment.ShipmentDate),
		shipment.OrderReference,
		shipment.ServiceCode,
		shipment.ServiceName,
		formatAmount(shipment.ActualWeight),
		formatAmount(shipment.BilledWeight),
		shipment.SenderName,
		shipment.SenderCity,
		shipment.SenderCountry,
		shipment.RecipientName,
		shipment.RecipientCompany,
		shipment.RecipientCity,
		shipment.RecipientCountry,
		shipment.ShipmentType,
		formatBool(shipment.IsReturn),
		shipment.GoodsDescription,
		formatAmount(shipment.DiscountAmount),
		formatAmount(shipment.NetAmount),
		formatAmount(shipment.TotalCharge),
		formatCount(shipment.LineCount),
		shipment.SourceFile,
	}
}

func summaryRows(summary analytics.Summary) [][]string {
	rows := [][]string{
		{"TotalInvoices", formatCount(summary.TotalInvoices)},
		{"TotalPackages", formatCount(summary.TotalPackages)},
		{"TotalCost", formatAmount(summary.TotalCost)},
		{"TotalFreight", formatAmount(summary.TotalFreight)},
		{"TotalFuelSurcharge", formatAmount(summary.TotalFuelSurcharge)},
		{"TotalTax", formatAmount(summary.TotalTax)},
		{"TotalAccessorial", formatAmount(summary.TotalAccessorial)},
		{"AvgCostPerPackage", formatAmount(summary.AvgCostPerPackage)},
		{"TotalWeightKg", formatAmount(summary.TotalWeightKg)},
		{"ReturnRatePercent", formatAmount(summary.ReturnRate)},
		{"TopDestinationCountry", summary.TopDestination},
		{"Currency", summary.Currency},
	}

	if summary.DateRange != nil {
		rows = append(rows,
			[]string{"DateRangeStart", summary.DateRange.Start},
			[]string{"DateRangeEnd", summary.DateRange.End})
	}

	return rows
}

func costBreakdownHeaders() []string {
	return []string{"Category", "CategoryName", "DiscountAmount", "NetAmount", "TotalCharge", "Percentage"}
}

func costBreakdownRows(rows []analytics.CostBreakdownRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.ChargeCategory,
			row.ChargeCategoryName,
			formatAmount(row.DiscountAmount),
			formatAmount(row.NetAmount),
			formatAmount(row.TotalCharge),
			formatAmount(row.Percentage),
		})
	}
	return out
}

func destinationHeaders() []string {
	return []string{"CountryCode", "CountryName", "PackageCount", "TotalCost", "TotalWeightKg", "ReturnCount", "AvgCostPerPackage", "ReturnRatePercent"}
}

func destinationRows(rows []analytics.DestinationRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.CountryCode,
			row.CountryName,
			formatCount(row.PackageCount),
			formatAmount(row.TotalCost),
			formatAmount(row.TotalWeight),
			formatCount(row.ReturnCount),
			formatAmount(row.AvgCostPerPackage),
			formatAmount(row.ReturnRate),
		})
	}
	return out
}

func trendHeaders() []string {
	return []string{"Period", "PackageCount", "TotalCost", "TotalWeightKg", "AvgCostPerPackage"}
}

func trendRows(rows []analytics.TrendRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.Period,
			formatCount(row.PackageCount),
			formatAmount(row.TotalCost),
			formatAmount(row.TotalWeight),
			formatAmount(row.AvgCostPerPackage),
		})
	}
	return out
}

func serviceHeaders() []string {
	return []string{"ServiceCode", "ServiceName", "PackageCount", "TotalCost", "TotalWeightKg", "AvgCostPerPackage"}
}

func serviceRows(rows []analytics.ServiceRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.ServiceCode,
			row.ServiceName,
			formatCount(row.PackageCount),
			formatAmount(row.TotalCost),
			formatAmount(row.TotalWeight),
			formatAmount(row.AvgCostPerPackage),
		})
	}
	return out
}

func weightBucketHeaders() []string {
	return []string{"WeightRange", "PackageCount", "TotalCost"}
}

func weightBucketRows(rows []analytics.WeightBucketRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.WeightRange,
			formatCount(row.PackageCount),
			formatAmount(row.TotalCost),
		})
	}
	return out
}

func weightDetailHeaders() []string {
	return []string{"TrackingNumber", "ActualWeightKg", "BilledWeightKg", "WeightDiffKg"}
}

func weightDetailRows(rows []analytics.WeightDetailRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.TrackingNumber,
			formatAmount(row.ActualWeight),
			formatAmount(row.BilledWeight),
			formatAmount(row.WeightDiff),
		})
	}
	return out
}

func returnReasonHeaders() []string {
	return []string{"Reason", "Count", "TotalCost"}
}

func returnReasonRows(rows []analytics.ReturnReasonRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.Reason,
			formatCount(row.Count),
			formatAmount(row.TotalCost),
		})
	}
	return out
}

func returnCountryHeaders() []string {
	return []string{"CountryCode", "CountryName", "ReturnCount", "ReturnCost"}
}

func returnCountryRows(rows []analytics.ReturnCountryRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.CountryCode,
			row.CountryName,
			formatCount(row.ReturnCount),
			formatAmount(row.ReturnCost),
		})
	}
	return out
}

func dutyTypeHeaders() []string {
	return []string{"Category", "ChargeName", "TotalCost", "ShipmentCount"}
}

func dutyTypeRows(rows []analytics.DutyChargeTypeRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.ChargeCategory,
			row.ChargeName,
			formatAmount(row.TotalCost),
			formatCount(row.ShipmentCount),
		})
	}
	return out
}

func dutyCountryHeaders() []string {
	return []string{"CountryCode", "CountryName", "ShipmentCount", "TotalCost", "AvgCostPerShipment"}
}

func dutyCountryRows(rows []analytics.DutyCountryRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.CountryCode,
			row.CountryName,
			formatCount(row.ShipmentCount),
			formatAmount(row.TotalCost),
			formatAmount(row.AvgCostPerShipment),
		})
	}
	return out
}

func dutyDetailHeaders() []string {
	return []string{"TrackingNumber", "Country", "Recipient", "City", "OrderReference", "ShipmentDate", "TotalCost", "BrokerageCost", "CustomsCost"}
}

func dutyDetailRows(rows []analytics.DutyDetailRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.TrackingNumber,
			row.Country,
			row.Recipient,
			row.City,
			row.OrderReference,
			formatDate(row.ShipmentDate),
			formatAmount(row.TotalCost),
			formatAmount(row.BrokerageCost),
			formatAmount(row.CustomsCost),
		})
	}
	return out
}

func accessorialCodeHeaders() []string {
	return []string{"ChargeCode", "Description", "TotalCost", "ShipmentCount"}
}

func accessorialCodeRows(rows []analytics.AccessorialChargeRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.ChargeCode,
			row.Description,
			formatAmount(row.TotalCost),
			formatCount(row.ShipmentCount),
		})
	}
	return out
}

func accessorialCountryHeaders() []string {
	return []string{"CountryCode", "CountryName", "ShipmentCount", "TotalCost", "AvgPerShipment"}
}

func accessorialCountryRows(rows []analytics.AccessorialCountryRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.CountryCode,
			row.CountryName,
			formatCount(row.ShipmentCount),
			formatAmount(row.TotalCost),
			formatAmount(row.AvgPerShipment),
		})
	}
	return out
}

func accessorialTrendHeaders() []string {
	return []string{"Period", "TotalCost", "ShipmentCount"}
}

func accessorialTrendRows(rows []analytics.AccessorialTrendRow) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, []string{
			row.Period,
			formatAmount(row.TotalCost),
			formatCount(row.ShipmentCount),
		})
	}
	return out
}

func topExpenseHeaders() []string {
	return []string{"TrackingNumber", "ShipmentDate", "ServiceName", "RecipientCity", "RecipientCountry", "LineCount", "TotalCharge", "SourceFile"}
}

func topExpenseRows(shipments []domain.Shipment) [][]string {
	var out [][]string
	for _, shipment := range shipments {
		out = append(out, []string{
			shipment.TrackingNumber,
			formatDate(shipment.ShipmentDate),
			shipment.ServiceName,
			shipment.RecipientCity,
			shipment.RecipientCountry,
			formatCount(shipment.LineCount),
			formatAmount(shipment.TotalCharge),
			shipment.SourceFile,
		})
	}
	return out
}
