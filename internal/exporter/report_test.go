package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscli/internal/analytics"
	"upscli/pkg/contracts/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testReport is a small but fully populated report. The exporter only
// converts rows, so the values just need to be recognizable.
func testReport() *analytics.Report {
	return &analytics.Report{
		Summary: analytics.Summary{
			TotalInvoices:      2,
			TotalPackages:      3,
			TotalCost:          dec("79.50"),
			TotalFreight:       dec("65.00"),
			TotalFuelSurcharge: dec("3.20"),
			TotalTax:           dec("2.00"),
			TotalAccessorial:   dec("1.80"),
			AvgCostPerPackage:  dec("26.50"),
			TotalWeightKg:      dec("25.50"),
			DateRange:          &analytics.DateRange{Start: "2025-01-06", End: "2025-03-03"},
			TopDestination:     "DE",
			ReturnRate:         dec("20"),
			Currency:           "EUR",
		},
		CostBreakdown: []analytics.CostBreakdownRow{
			{ChargeCategory: "FRT", ChargeCategoryName: "Freight", DiscountAmount: dec("-1.50"), NetAmount: dec("65.00"), TotalCharge: dec("65.00"), Percentage: dec("81.76")},
			{ChargeCategory: "FSC", ChargeCategoryName: "Fuel Surcharge", DiscountAmount: decimal.Zero, NetAmount: dec("3.20"), TotalCharge: dec("3.20"), Percentage: dec("4.03")},
		},
		Destinations: []analytics.DestinationRow{
			{CountryCode: "DE", CountryName: "Germany", PackageCount: 2, TotalCost: dec("55.50"), TotalWeight: dec("23.50"), ReturnCount: 0, AvgCostPerPackage: dec("27.75"), ReturnRate: decimal.Zero},
		},
		Trends: []analytics.TrendRow{
			{Period: "2025-01", PackageCount: 2, TotalCost: dec("17.00"), TotalWeight: dec("3.50"), AvgCostPerPackage: dec("8.50")},
		},
		Returns: analytics.ReturnsAnalysis{
			HasData: true,
			Summary: analytics.ReturnsSummary{TotalReturns: 1, TotalReturnCost: dec("9.00"), ReturnRate: dec("20"), AvgReturnCost: dec("9.00")},
			ByReason: []analytics.ReturnReasonRow{
				{Reason: "RTS", Count: 1, TotalCost: dec("9.00")},
			},
			ByCountry: []analytics.ReturnCountryRow{
				{CountryCode: "DE", CountryName: "Germany", ReturnCount: 1, ReturnCost: dec("9.00")},
			},
		},
		Weights: analytics.WeightsAnalysis{
			HasData: true,
			Summary: analytics.WeightsSummary{
				TotalActualWeight: dec("22.90"), TotalBilledWeight: dec("25.50"),
				AvgActualWeight: dec("4.58"), AvgBilledWeight: dec("5.10"),
				WeightPremium: dec("11.35"), PackagesWithDimWeight: 3,
			},
			Distribution: []analytics.WeightBucketRow{
				{WeightRange: "0.5-1kg", PackageCount: 1, TotalCost: dec("15.00")},
			},
			Detail: []analytics.WeightDetailRow{
				{TrackingNumber: "1Z001", ActualWeight: dec("2.00"), BilledWeight: dec("2.50"), WeightDiff: dec("0.50")},
			},
		},
		Services: []analytics.ServiceRow{
			{ServiceCode: "704", ServiceName: "WW Standard", PackageCount: 3, TotalCost: dec("55.50"), TotalWeight: dec("23.50"), AvgCostPerPackage: dec("18.50")},
		},
		Duties: analytics.DutiesAnalysis{
			HasData: true,
			Summary: analytics.DutiesSummary{TotalCost: dec("38.50"), ShipmentCount: 1, BrokerageCost: dec("5.00"), CustomsCost: dec("2.50"), OtherCost: dec("31.00"), AvgCostPerShipment: dec("38.50")},
			ByChargeType: []analytics.DutyChargeTypeRow{
				{ChargeCategory: "BRK", ChargeName: "Brokerage", TotalCost: dec("5.00"), ShipmentCount: 1},
			},
			ByCountry: []analytics.DutyCountryRow{
				{CountryCode: "DE", CountryName: "Germany", ShipmentCount: 1, TotalCost: dec("38.50"), AvgCostPerShipment: dec("38.50")},
			},
			Detail: []analytics.DutyDetailRow{
				{TrackingNumber: "1Z005", Country: "DE", Recipient: "Muster GmbH", City: "Munich", OrderReference: "ORD-555", ShipmentDate: day(2025, time.March, 3), TotalCost: dec("38.50"), BrokerageCost: dec("5.00"), CustomsCost: dec("2.50")},
			},
		},
		Accessorials: analytics.AccessorialsAnalysis{
			HasData: true,
			Summary: analytics.AccessorialsSummary{TotalCost: dec("1.80"), ChargeCount: 2, ShipmentCount: 2, ResidentialCost: dec("0.80"), SurgeCost: dec("1.00"), AreaSurchargeCost: decimal.Zero, AvgPerShipment: dec("0.90")},
			ByChargeCode: []analytics.AccessorialChargeRow{
				{ChargeCode: "RES", Description: "Residential Surcharge", TotalCost: dec("0.80"), ShipmentCount: 1},
			},
			ByCountry: []analytics.AccessorialCountryRow{
				{CountryCode: "DE", CountryName: "Germany", ShipmentCount: 1, TotalCost: dec("0.80"), AvgPerShipment: dec("0.80")},
			},
			Trends: []analytics.AccessorialTrendRow{
				{Period: "2025-01", TotalCost: dec("0.80"), ShipmentCount: 1},
			},
		},
		TopExpenses: []domain.Shipment{
			{TrackingNumber: "1Z005", ShipmentDate: day(2025, time.March, 3), ServiceName: "WW Standard", RecipientCity: "Munich", RecipientCountry: "DE", LineCount: 3, TotalCharge: dec("38.50"), SourceFile: "mar.csv"},
		},
	}
}

func readCSVLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	// Strip the BOM before splitting.
	trimmed := strings.TrimPrefix(string(content), "\xEF\xBB\xBF")
	return strings.Split(strings.TrimSpace(trimmed), "\n")
}

func TestReportExporter_ExportChargeLines(t *testing.T) {
	dir := t.TempDir()
	exporter := NewReportExporter(dir)

	records := []domain.ChargeRecord{
		{
			TrackingNumber: "1Z001", InvoiceNumber: "INV-100",
			InvoiceDate: day(2025, time.March, 31), ShipmentDate: day(2025, time.January, 6),
			ChargeCategory: "FRT", ChargeCategoryName: "Freight",
			ChargeCode: "STD", ChargeDescription: "WW Standard",
			ServiceCode: "704", ServiceName: "WW Standard", ShipmentType: "SHP",
			ActualWeight: dec("2"), BilledWeight: dec("2.5"),
			DiscountAmount: dec("-1.5"), NetAmount: dec("8.4"), TotalCharge: dec("8.4"),
			Currency: "EUR", SenderCountry: "NL", RecipientCity: "Berlin", RecipientCountry: "DE",
			SourceFile: "jan.csv",
		},
	}

	require.NoError(t, exporter.ExportChargeLines(records, "charges.csv"))

	lines := readCSVLines(t, filepath.Join(dir, "charges.csv"))
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(chargeLineHeaders(), ","), lines[0])
	assert.Equal(t,
		"1Z001,INV-100,2025-03-31,2025-01-06,FRT,Freight,STD,WW Standard,704,WW Standard,SHP,,2.00,2.50,-1.50,8.40,8.40,EUR,NL,Berlin,DE,false,jan.csv",
		lines[1])
}

func TestReportExporter_ExportChargeLinesStreaming(t *testing.T) {
	dir := t.TempDir()
	exporter := NewReportExporter(dir)

	records := []domain.ChargeRecord{
		{TrackingNumber: "1Z001", ChargeCategory: "FRT", NetAmount: dec("8.40"), TotalCharge: dec("8.40")},
		{TrackingNumber: "1Z002", ChargeCategory: "FSC", NetAmount: dec("1.20"), TotalCharge: dec("1.20")},
	}

	require.NoError(t, exporter.ExportChargeLines(records, "buffered.csv"))
	require.NoError(t, exporter.ExportChargeLinesStreaming(records, "streamed.csv"))

	buffered, err := os.ReadFile(filepath.Join(dir, "buffered.csv"))
	require.NoError(t, err)
	streamed, err := os.ReadFile(filepath.Join(dir, "streamed.csv"))
	require.NoError(t, err)
	assert.Equal(t, buffered, streamed)
}

func TestReportExporter_ExportShipments(t *testing.T) {
	dir := t.TempDir()
	exporter := NewReportExporter(dir)

	shipments := []domain.Shipment{
		{
			TrackingNumber: "1Z001", InvoiceNumber: "INV-100",
			ShipmentDate: day(2025, time.January, 6), OrderReference: "ORD-1",
			ServiceCode: "704", ServiceName: "WW Standard",
			ActualWeight: dec("2"), BilledWeight: dec("2.5"),
			SenderName: "Acme B.V.", SenderCity: "Amsterdam", SenderCountry: "NL",
			RecipientName: "Jan Schulz", RecipientCity: "Berlin", RecipientCountry: "DE",
			ShipmentType: "SHP", GoodsDescription: "Spare parts",
			DiscountAmount: decimal.Zero, NetAmount: dec("9.2"), TotalCharge: dec("9.2"),
			LineCount: 2, SourceFile: "jan.csv",
		},
	}

	require.NoError(t, exporter.ExportShipments(shipments, "shipments.csv"))

	lines := readCSVLines(t, filepath.Join(dir, "shipments.csv"))
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(shipmentHeaders(), ","), lines[0])
	assert.Equal(t,
		"1Z001,INV-100,2025-01-06,ORD-1,704,WW Standard,2.00,2.50,Acme B.V.,Amsterdam,NL,Jan Schulz,,Berlin,DE,SHP,false,Spare parts,0.00,9.20,9.20,2,jan.csv",
		lines[1])
}

func TestReportExporter_ExportRollups(t *testing.T) {
	dir := t.TempDir()
	exporter := NewReportExporter(dir)

	require.NoError(t, exporter.ExportRollups(testReport(), "rollups"))

	wantFiles := []string{
		"summary.csv",
		"cost_breakdown.csv",
		"destinations.csv",
		"trends.csv",
		"services.csv",
		"weights_distribution.csv",
		"weights_detail.csv",
		"returns_by_reason.csv",
		"returns_by_country.csv",
		"duties_by_charge_type.csv",
		"duties_by_country.csv",
		"duties_detail.csv",
		"accessorials_by_charge_code.csv",
		"accessorials_by_country.csv",
		"accessorials_trends.csv",
		"top_expenses.csv",
	}
	for _, name := range wantFiles {
		assert.FileExists(t, filepath.Join(dir, "rollups", name))
	}

	breakdown := readCSVLines(t, filepath.Join(dir, "rollups", "cost_breakdown.csv"))
	require.Len(t, breakdown, 3)
	assert.Equal(t, "Category,CategoryName,DiscountAmount,NetAmount,TotalCharge,Percentage", breakdown[0])
	assert.Equal(t, "FRT,Freight,-1.50,65.00,65.00,81.76", breakdown[1])
	assert.Equal(t, "FSC,Fuel Surcharge,0.00,3.20,3.20,4.03", breakdown[2])

	summary := readCSVLines(t, filepath.Join(dir, "rollups", "summary.csv"))
	assert.Equal(t, "Metric,Value", summary[0])
	assert.Contains(t, summary, "TotalCost,79.50")
	assert.Contains(t, summary, "TopDestinationCountry,DE")
	assert.Contains(t, summary, "DateRangeStart,2025-01-06")

	expenses := readCSVLines(t, filepath.Join(dir, "rollups", "top_expenses.csv"))
	require.Len(t, expenses, 2)
	assert.Equal(t, "1Z005,2025-03-03,WW Standard,Munich,DE,3,38.50,mar.csv", expenses[1])
}

func TestReportExporter_ExportRollups_EmptyReport(t *testing.T) {
	dir := t.TempDir()
	exporter := NewReportExporter(dir)

	report := &analytics.Report{Summary: analytics.Summary{Currency: "EUR"}}
	require.NoError(t, exporter.ExportRollups(report, "rollups"))

	// Tables with no rows still export with their header line.
	breakdown := readCSVLines(t, filepath.Join(dir, "rollups", "cost_breakdown.csv"))
	require.Len(t, breakdown, 1)
	assert.Equal(t, "Category,CategoryName,DiscountAmount,NetAmount,TotalCharge,Percentage", breakdown[0])
}
