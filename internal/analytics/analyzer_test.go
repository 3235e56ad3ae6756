package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscli/pkg/contracts/domain"
)

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// freightLine builds the package-descriptor line of a shipment. Callers
// adjust weights, addresses and service fields per scenario.
func freightLine(tracking, invoice string, shipped time.Time, net string) domain.ChargeRecord {
	amount := decimal.RequireFromString(net)
	return domain.ChargeRecord{
		InvoiceNumber:      invoice,
		InvoiceDate:        day(2025, time.March, 31),
		Currency:           "EUR",
		ShipmentDate:       shipped,
		PackageIndicator:   domain.PackageLineIndicator,
		TrackingNumber:     tracking,
		ShipmentType:       "SHP",
		ChargeCategory:     domain.CategoryFreight,
		ChargeCategoryName: domain.ChargeCategoryLabel(domain.CategoryFreight),
		NetAmount:          amount,
		TotalCharge:        amount,
		IsPackageLine:      true,
		SourceFile:         "invoice_2025.csv",
	}
}

// chargeLine builds a charge-only line. Address fields stay empty the
// way charge-only lines in real exports usually do.
func chargeLine(tracking, category, code, description, net string, shipped time.Time) domain.ChargeRecord {
	amount := decimal.RequireFromString(net)
	return domain.ChargeRecord{
		Currency:           "EUR",
		ShipmentDate:       shipped,
		TrackingNumber:     tracking,
		ShipmentType:       "SHP",
		ChargeCategory:     category,
		ChargeCategoryName: domain.ChargeCategoryLabel(category),
		ChargeCode:         code,
		ChargeDescription:  description,
		NetAmount:          amount,
		TotalCharge:        amount,
		SourceFile:         "invoice_2025.csv",
	}
}

// testRecords builds a five-shipment dataset: three outbound to Germany
// (one an import with brokerage), one outbound to France and one return
// coming back from Germany.
func testRecords() []domain.ChargeRecord {
	jan6 := day(2025, time.January, 6)
	jan8 := day(2025, time.January, 8)
	feb10 := day(2025, time.February, 10)
	feb12 := day(2025, time.February, 12)
	mar3 := day(2025, time.March, 3)

	r1 := freightLine("1Z001", "INV-100", jan6, "8.00")
	r1.ServiceCode = "704"
	r1.ServiceName = "WW Standard"
	r1.ChargeDescription = "WW Standard"
	r1.ActualWeight = decimal.RequireFromString("2.0")
	r1.BilledWeight = decimal.RequireFromString("2.5")
	r1.SenderName = "Acme B.V."
	r1.SenderCity = "Amsterdam"
	r1.SenderCountry = "NL"
	r1.RecipientName = "Jan Schulz"
	r1.RecipientCity = "Berlin"
	r1.RecipientCountry = "DE"

	r1fuel := chargeLine("1Z001", domain.CategoryFuelSurcharge, "FSC", "Fuel Surcharge", "1.20", jan6)
	r1res := chargeLine("1Z001", domain.CategoryAccessorial, "RES", "Residential Surcharge", "0.80", jan6)

	r2 := freightLine("1Z002", "INV-100", jan8, "6.00")
	r2.ServiceCode = "704"
	r2.ServiceName = "WW Standard"
	r2.ChargeDescription = "WW Standard"
	r2.ActualWeight = decimal.RequireFromString("1.0")
	r2.BilledWeight = decimal.RequireFromString("1.0")
	r2.SenderName = "Acme B.V."
	r2.SenderCity = "Amsterdam"
	r2.SenderCountry = "NL"
	r2.RecipientName = "Erika Braun"
	r2.RecipientCity = "Hamburg"
	r2.RecipientCountry = "DE"

	r2tax := chargeLine("1Z002", domain.CategoryTax, "VAT", "VAT 19%", "1.00", jan8)

	r3 := freightLine("1Z003", "INV-101", feb10, "12.00")
	r3.ServiceCode = "007"
	r3.ServiceName = "WW Express Saver"
	r3.ChargeDescription = "WW Express Saver"
	r3.ActualWeight = decimal.RequireFromString("0.4")
	r3.BilledWeight = decimal.RequireFromString("0.5")
	r3.SenderName = "Acme B.V."
	r3.SenderCity = "Amsterdam"
	r3.SenderCountry = "NL"
	r3.RecipientName = "Marie Dubois"
	r3.RecipientCity = "Lyon"
	r3.RecipientCountry = "FR"

	r3fuel := chargeLine("1Z003", domain.CategoryFuelSurcharge, "FSC", "Fuel Surcharge", "2.00", feb10)
	r3surge := chargeLine("1Z003", domain.CategoryAccessorial, "PFR", "Peak Surcharge Residential", "1.00", feb10)

	r4 := freightLine("1Z004", "INV-101", feb12, "9.00")
	r4.ServiceCode = "353"
	r4.ServiceName = "TB Standard Undeliverable Return"
	r4.ChargeDescription = "TB Standard Undeliverable Return"
	r4.ShipmentType = domain.ShipmentTypeReturn
	r4.ShipmentSubtype = "RTS"
	r4.IsReturn = true
	r4.ActualWeight = decimal.RequireFromString("1.5")
	r4.BilledWeight = decimal.RequireFromString("1.5")
	r4.SenderName = "Jan Schulz"
	r4.SenderCity = "Berlin"
	r4.SenderCountry = "DE"
	r4.RecipientName = "Acme B.V."
	r4.RecipientCity = "Amsterdam"
	r4.RecipientCountry = "NL"

	r5 := freightLine("1Z005", "INV-102", mar3, "30.00")
	r5.ServiceCode = "704"
	r5.ServiceName = "WW Standard"
	r5.ChargeDescription = "WW Standard"
	r5.ShipmentSubtype = domain.ShipmentSubtypeImport
	r5.OrderReference = "ORD-555"
	r5.ActualWeight = decimal.RequireFromString("18.0")
	r5.BilledWeight = decimal.RequireFromString("20.0")
	r5.SenderName = "Acme B.V."
	r5.SenderCity = "Amsterdam"
	r5.SenderCountry = "NL"
	r5.RecipientName = "Muster GmbH"
	r5.RecipientCity = "Munich"
	r5.RecipientCountry = "DE"

	r5brk := chargeLine("1Z005", domain.CategoryBrokerage, "BRK", "Brokerage Entry", "5.00", mar3)
	r5brk.ShipmentSubtype = domain.ShipmentSubtypeImport
	r5gov := chargeLine("1Z005", domain.CategoryGovernment, "GOV", "Import Duties", "2.50", mar3)
	r5gov.ShipmentSubtype = domain.ShipmentSubtypeImport
	r5tax := chargeLine("1Z005", domain.CategoryTax, "VAT", "Import VAT", "1.00", mar3)
	r5tax.ShipmentSubtype = domain.ShipmentSubtypeImport

	return []domain.ChargeRecord{
		r1, r1fuel, r1res,
		r2, r2tax,
		r3, r3fuel, r3surge,
		r4,
		r5, r5brk, r5gov, r5tax,
	}
}

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(testRecords(), nil)
}

func TestShipments_FoldsChargeLines(t *testing.T) {
	freight := freightLine("1Z999", "INV-1", day(2025, time.January, 2), "10.00")
	freight.ServiceCode = "007"
	freight.ServiceName = "WW Express Saver"
	freight.ChargeDescription = "WW Express Saver"
	extra := chargeLine("1Z999", domain.CategoryAccessorial, "RES", "Residential Surcharge", "3.50", day(2025, time.January, 2))

	a := New([]domain.ChargeRecord{freight, extra}, nil)
	shipments := a.Shipments()

	require.Len(t, shipments, 1)
	s := shipments[0]
	assert.Equal(t, "1Z999", s.TrackingNumber)
	assert.Equal(t, "WW Express Saver", s.ServiceName)
	assertAmount(t, "13.50", s.TotalCharge)
	assertAmount(t, "13.50", s.NetAmount)
	assert.Equal(t, 2, s.LineCount)
}

func TestShipments_FirstAppearanceOrder(t *testing.T) {
	shipments := testAnalyzer(t).Shipments()

	require.Len(t, shipments, 5)
	order := make([]string, 0, len(shipments))
	for _, s := range shipments {
		order = append(order, s.TrackingNumber)
	}
	assert.Equal(t, []string{"1Z001", "1Z002", "1Z003", "1Z004", "1Z005"}, order)
}

func TestShipments_DescriptorFieldsFromFreightLine(t *testing.T) {
	shipments := testAnalyzer(t).Shipments()

	s := shipments[4]
	assert.Equal(t, "1Z005", s.TrackingNumber)
	assert.Equal(t, "INV-102", s.InvoiceNumber)
	assert.Equal(t, "ORD-555", s.OrderReference)
	assert.Equal(t, "Muster GmbH", s.RecipientName)
	assert.Equal(t, "DE", s.RecipientCountry)
	assert.Equal(t, domain.ShipmentSubtypeImport, s.ShipmentSubtype)
	assertAmount(t, "20.0", s.BilledWeight)
	assertAmount(t, "38.50", s.TotalCharge)
	assert.Equal(t, 4, s.LineCount)
}

func TestShipments_DescriptorlessTrackingDropped(t *testing.T) {
	records := testRecords()
	orphan := chargeLine("1Z998", domain.CategoryTax, "VAT", "VAT 19%", "4.00", day(2025, time.January, 20))
	records = append(records, orphan)

	shipments := New(records, nil).Shipments()

	for _, s := range shipments {
		assert.NotEqual(t, "1Z998", s.TrackingNumber)
	}
	assert.Len(t, shipments, 5)
}

func TestShipments_FallbackWithoutFreightDescriptors(t *testing.T) {
	pkg := chargeLine("1Z100", domain.CategoryMiscellaneous, "", "Manifest", "2.00", day(2025, time.January, 2))
	pkg.PackageIndicator = domain.PackageLineIndicator
	pkg.IsPackageLine = true
	pkg.ServiceCode = "704"
	pkg.ServiceName = "WW Standard"
	extra := chargeLine("1Z100", domain.CategoryFuelSurcharge, "FSC", "Fuel Surcharge", "0.40", day(2025, time.January, 2))

	shipments := New([]domain.ChargeRecord{pkg, extra}, nil).Shipments()

	require.Len(t, shipments, 1)
	assert.Equal(t, "WW Standard", shipments[0].ServiceName)
	assertAmount(t, "2.40", shipments[0].TotalCharge)
}

func TestShipments_EmptyTrackingSkipped(t *testing.T) {
	records := testRecords()
	blank := chargeLine("", domain.CategoryFreight, "", "Service Charge", "99.00", day(2025, time.January, 2))
	blank.PackageIndicator = domain.PackageLineIndicator
	blank.IsPackageLine = true
	records = append(records, blank)

	shipments := New(records, nil).Shipments()

	assert.Len(t, shipments, 5)
	for _, s := range shipments {
		assert.NotEmpty(t, s.TrackingNumber)
	}
}

func TestShipments_MoneyPreserved(t *testing.T) {
	a := testAnalyzer(t)

	var lineTotal, lineNet decimal.Decimal
	for _, r := range a.Records() {
		lineTotal = lineTotal.Add(r.TotalCharge)
		lineNet = lineNet.Add(r.NetAmount)
	}
	var shipmentTotal decimal.Decimal
	for _, s := range a.Shipments() {
		shipmentTotal = shipmentTotal.Add(s.TotalCharge)
	}

	assert.True(t, lineTotal.Equal(lineNet), "total %s vs net %s", lineTotal, lineNet)
	assert.True(t, shipmentTotal.Equal(lineTotal), "shipments %s vs lines %s", shipmentTotal, lineTotal)
}

func TestShipments_Cached(t *testing.T) {
	a := testAnalyzer(t)
	first := a.Shipments()
	second := a.Shipments()
	assert.Same(t, &first[0], &second[0])
}

func TestShipments_Empty(t *testing.T) {
	assert.Empty(t, New(nil, nil).Shipments())
}

func TestSummary(t *testing.T) {
	s := testAnalyzer(t).Summary()

	assert.Equal(t, 3, s.TotalInvoices)
	assert.Equal(t, 5, s.TotalPackages)
	assertAmount(t, "79.50", s.TotalCost)
	assertAmount(t, "65.00", s.TotalFreight)
	assertAmount(t, "3.20", s.TotalFuelSurcharge)
	assertAmount(t, "2.00", s.TotalTax)
	assertAmount(t, "1.80", s.TotalAccessorial)
	assertAmount(t, "15.90", s.AvgCostPerPackage)
	assertAmount(t, "25.5", s.TotalWeightKg)
	require.NotNil(t, s.DateRange)
	assert.Equal(t, "2025-01-06", s.DateRange.Start)
	assert.Equal(t, "2025-03-03", s.DateRange.End)
	assert.Equal(t, "DE", s.TopDestination)
	assertAmount(t, "20", s.ReturnRate)
	assert.Equal(t, "EUR", s.Currency)
}

func TestSummary_EmptyDataset(t *testing.T) {
	s := New(nil, nil).Summary()

	assert.Equal(t, 0, s.TotalInvoices)
	assert.Equal(t, 0, s.TotalPackages)
	assert.True(t, s.TotalCost.IsZero())
	assert.True(t, s.ReturnRate.IsZero())
	assert.Nil(t, s.DateRange)
	assert.Empty(t, s.TopDestination)
	assert.Equal(t, "EUR", s.Currency)
}

func TestSummary_CurrencyFallback(t *testing.T) {
	r := freightLine("1Z001", "INV-1", day(2025, time.January, 2), "5.00")
	r.Currency = ""

	s := New([]domain.ChargeRecord{r}, nil).Summary()
	assert.Equal(t, "EUR", s.Currency)
}

func TestSummary_TopDestinationTie(t *testing.T) {
	a := freightLine("1Z001", "INV-1", day(2025, time.January, 2), "1.00")
	a.RecipientCountry = "FR"
	b := freightLine("1Z002", "INV-1", day(2025, time.January, 3), "1.00")
	b.RecipientCountry = "DE"
	c := freightLine("1Z003", "INV-1", day(2025, time.January, 4), "1.00")
	c.RecipientCountry = "FR"
	d := freightLine("1Z004", "INV-1", day(2025, time.January, 5), "1.00")
	d.RecipientCountry = "DE"

	s := New([]domain.ChargeRecord{a, b, c, d}, nil).Summary()
	assert.Equal(t, "FR", s.TopDestination)
}

func TestFilter_NoPredicatesIdentity(t *testing.T) {
	a := testAnalyzer(t)
	filtered := a.Filter(Filter{})

	assert.Equal(t, a.Summary(), filtered.Summary())
	assert.Equal(t, a.CostBreakdown(), filtered.CostBreakdown())
	assert.Equal(t, a.ByDestination(), filtered.ByDestination())
	assert.Equal(t, a.Trends(PeriodMonth), filtered.Trends(PeriodMonth))
	assert.Equal(t, a.Trends(PeriodWeek), filtered.Trends(PeriodWeek))
	assert.Equal(t, a.Returns(), filtered.Returns())
	assert.Equal(t, a.Weights(), filtered.Weights())
	assert.Equal(t, a.Services(), filtered.Services())
	assert.Equal(t, a.DutiesAndBrokerage(), filtered.DutiesAndBrokerage())
	assert.Equal(t, a.Accessorials(), filtered.Accessorials())
	assert.Equal(t, a.TopExpenses(10), filtered.TopExpenses(10))
}

func TestFilter_DateRangeInclusive(t *testing.T) {
	start := day(2025, time.February, 10)
	end := day(2025, time.February, 12)

	filtered := testAnalyzer(t).Filter(Filter{StartDate: &start, EndDate: &end})
	shipments := filtered.Shipments()

	require.Len(t, shipments, 2)
	assert.Equal(t, "1Z003", shipments[0].TrackingNumber)
	assert.Equal(t, "1Z004", shipments[1].TrackingNumber)
}

func TestFilter_DateBoundsAtLineGranularity(t *testing.T) {
	freight := freightLine("1Z777", "INV-1", day(2025, time.January, 10), "5.00")
	late := chargeLine("1Z777", domain.CategoryAccessorial, "RES", "Residential Surcharge", "2.00", day(2025, time.February, 20))
	undated := chargeLine("1Z777", domain.CategoryTax, "VAT", "VAT 19%", "1.00", time.Time{})

	end := day(2025, time.January, 31)
	filtered := New([]domain.ChargeRecord{freight, late, undated}, nil).Filter(Filter{EndDate: &end})

	shipments := filtered.Shipments()
	require.Len(t, shipments, 1)
	assertAmount(t, "5.00", shipments[0].TotalCharge)
	assert.Equal(t, 1, shipments[0].LineCount)
}

func TestFilter_Countries(t *testing.T) {
	filtered := testAnalyzer(t).Filter(Filter{Countries: []string{"DE"}})
	shipments := filtered.Shipments()

	require.Len(t, shipments, 3)
	for _, s := range shipments {
		assert.Equal(t, "DE", s.RecipientCountry)
	}
	// Charge-only lines carry no country and fall outside the filter,
	// so each shipment keeps just its freight line.
	assertAmount(t, "44.00", filtered.Summary().TotalCost)
}

func TestFilter_Services(t *testing.T) {
	filtered := testAnalyzer(t).Filter(Filter{Services: []string{"007"}})
	shipments := filtered.Shipments()

	require.Len(t, shipments, 1)
	assert.Equal(t, "1Z003", shipments[0].TrackingNumber)
	assertAmount(t, "12.00", shipments[0].TotalCharge)
}

func TestFilter_ReturnsOnly(t *testing.T) {
	a := testAnalyzer(t)
	filtered := a.Filter(Filter{ReturnsOnly: true})

	shipments := filtered.Shipments()
	require.NotEmpty(t, shipments)
	for _, s := range shipments {
		assert.True(t, s.IsReturn)
	}
	assert.Equal(t, a.Returns().Summary.TotalReturns, len(shipments))
}

func TestFilter_IndependentInstances(t *testing.T) {
	a := testAnalyzer(t)
	filtered := a.Filter(Filter{ReturnsOnly: true})

	require.Len(t, filtered.Shipments(), 1)
	assert.Len(t, a.Shipments(), 5)
	assert.Equal(t, 5, a.Summary().TotalPackages)
}

func TestFilterIsZero(t *testing.T) {
	start := day(2025, time.January, 1)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty", filter: Filter{}, want: true},
		{name: "start date", filter: Filter{StartDate: &start}, want: false},
		{name: "countries", filter: Filter{Countries: []string{"DE"}}, want: false},
		{name: "services", filter: Filter{Services: []string{"704"}}, want: false},
		{name: "returns only", filter: Filter{ReturnsOnly: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.IsZero())
		})
	}
}

func TestCountryName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "DE", want: "Germany"},
		{code: "FR", want: "France"},
		{code: "ZZ", want: "ZZ"},
		{code: "", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, countryName(tt.code))
		})
	}
}
