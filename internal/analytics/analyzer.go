package analytics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/biter777/countries"
	"github.com/shopspring/decimal"

	"upscli/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// Analyzer computes shipment-level views and rollups over one immutable
// set of charge records. The zero value is not usable; construct with
// New. Methods never mutate the record set, so a single Analyzer is
// safe for concurrent readers.
type Analyzer struct {
	logger  *slog.Logger
	records []domain.ChargeRecord

	shipmentsOnce sync.Once
	shipments     []domain.Shipment
}

// New creates an Analyzer over the given records. The caller must not
// modify the slice afterwards.
func New(records []domain.ChargeRecord, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		logger:  logger.With(slog.String("component", "analyzer")),
		records: records,
	}
}

// Records returns the wrapped charge-line records. The slice is shared;
// treat it as read-only.
func (a *Analyzer) Records() []domain.ChargeRecord {
	return a.records
}

// Shipments returns the per-tracking-number shipment table, computed on
// first use and cached for the lifetime of the Analyzer. Rows appear in
// the order their tracking numbers first occur in the record set.
//
// Descriptive fields come from one representative line per tracking
// number: the first package line in the freight category. When the
// whole dataset has no such line, any package line qualifies instead
// and its own resolved service name is used. Monetary fields sum every
// charge line for the tracking number regardless of category. Tracking
// numbers that have charge lines but no qualifying package line carry
// no weight or address data and are dropped from the table.
func (a *Analyzer) Shipments() []domain.Shipment {
	a.shipmentsOnce.Do(func() {
		a.shipments = a.buildShipments()
	})
	return a.shipments
}

// shipmentDescriptor picks the representative line per tracking number.
// Freight package lines are preferred because they carry the audited
// weights and the service name; the fallback covers exports where the
// freight category is absent entirely.
type shipmentDescriptor func(domain.ChargeRecord) bool

func preferFreightLines(r domain.ChargeRecord) bool { return r.IsDescriptorLine() }
func anyPackageLine(r domain.ChargeRecord) bool     { return r.IsPackageLine }

func (a *Analyzer) descriptorPolicy() shipmentDescriptor {
	for _, r := range a.records {
		if r.TrackingNumber != "" && r.IsDescriptorLine() {
			return preferFreightLines
		}
	}
	return anyPackageLine
}

func (a *Analyzer) buildShipments() []domain.Shipment {
	if len(a.records) == 0 {
		return []domain.Shipment{}
	}

	qualifies := a.descriptorPolicy()

	order := make([]string, 0, len(a.records)/2)
	descriptors := make(map[string]*domain.ChargeRecord)
	for i := range a.records {
		r := &a.records[i]
		if r.TrackingNumber == "" || !qualifies(*r) {
			continue
		}
		if _, seen := descriptors[r.TrackingNumber]; seen {
			continue
		}
		descriptors[r.TrackingNumber] = r
		order = append(order, r.TrackingNumber)
	}

	type totals struct {
		discount decimal.Decimal
		net      decimal.Decimal
		total    decimal.Decimal
		lines    int
	}
	sums := make(map[string]*totals, len(descriptors))
	for i := range a.records {
		r := &a.records[i]
		if r.TrackingNumber == "" {
			continue
		}
		t, ok := sums[r.TrackingNumber]
		if !ok {
			t = &totals{}
			sums[r.TrackingNumber] = t
		}
		t.discount = t.discount.Add(r.DiscountAmount)
		t.net = t.net.Add(r.NetAmount)
		t.total = t.total.Add(r.TotalCharge)
		t.lines++
	}

	shipments := make([]domain.Shipment, 0, len(order))
	for _, tn := range order {
		d := descriptors[tn]
		t := sums[tn]
		shipments = append(shipments, domain.Shipment{
			TrackingNumber:   tn,
			InvoiceNumber:    d.InvoiceNumber,
			InvoiceDate:      d.InvoiceDate,
			ShipmentDate:     d.ShipmentDate,
			OrderReference:   d.OrderReference,
			ServiceCode:      d.ServiceCode,
			ServiceName:      d.ServiceName,
			ActualWeight:     d.ActualWeight,
			BilledWeight:     d.BilledWeight,
			SenderName:       d.SenderName,
			SenderCity:       d.SenderCity,
			SenderCountry:    d.SenderCountry,
			RecipientName:    d.RecipientName,
			RecipientCompany: d.RecipientCompany,
			RecipientCity:    d.RecipientCity,
			RecipientCountry: d.RecipientCountry,
			ShipmentType:     d.ShipmentType,
			ShipmentSubtype:  d.ShipmentSubtype,
			GoodsDescription: d.GoodsDescription,
			IsReturn:         d.IsReturn,
			SourceFile:       d.SourceFile,
			DiscountAmount:   t.discount,
			NetAmount:        t.net,
			TotalCharge:      t.total,
			LineCount:        t.lines,
		})
	}

	a.logger.Debug("shipment table built",
		slog.Int("charge_lines", len(a.records)),
		slog.Int("shipments", len(shipments)))

	return shipments
}

// Summary computes the headline statistics for the dataset. An empty
// dataset yields the zero-valued summary with the default currency, not
// an error.
func (a *Analyzer) Summary() Summary {
	if len(a.records) == 0 {
		return Summary{Currency: "EUR"}
	}

	shipments := a.Shipments()

	invoices := make(map[string]struct{})
	categoryTotals := make(map[string]decimal.Decimal)
	var minDate, maxDate time.Time
	currency := ""
	for i := range a.records {
		r := &a.records[i]
		if r.InvoiceNumber != "" {
			invoices[r.InvoiceNumber] = struct{}{}
		}
		categoryTotals[r.ChargeCategory] = categoryTotals[r.ChargeCategory].Add(r.TotalCharge)
		if r.HasShipmentDate() {
			if minDate.IsZero() || r.ShipmentDate.Before(minDate) {
				minDate = r.ShipmentDate
			}
			if maxDate.IsZero() || r.ShipmentDate.After(maxDate) {
				maxDate = r.ShipmentDate
			}
		}
		if currency == "" && r.Currency != "" {
			currency = r.Currency
		}
	}
	if currency == "" {
		currency = "EUR"
	}

	var dateRange *DateRange
	if !minDate.IsZero() {
		dateRange = &DateRange{
			Start: minDate.Format("2006-01-02"),
			End:   maxDate.Format("2006-01-02"),
		}
	}

	var totalCost, totalWeight decimal.Decimal
	returnCount := 0
	destCounts := make(map[string]int)
	destOrder := make([]string, 0)
	for i := range shipments {
		s := &shipments[i]
		totalCost = totalCost.Add(s.TotalCharge)
		totalWeight = totalWeight.Add(s.BilledWeight)
		if s.IsReturn {
			returnCount++
		}
		if s.RecipientCountry != "" {
			if _, seen := destCounts[s.RecipientCountry]; !seen {
				destOrder = append(destOrder, s.RecipientCountry)
			}
			destCounts[s.RecipientCountry]++
		}
	}

	topDest := ""
	topCount := 0
	for _, country := range destOrder {
		if destCounts[country] > topCount {
			topDest = country
			topCount = destCounts[country]
		}
	}

	avgCost := decimal.Zero
	returnRate := decimal.Zero
	if n := len(shipments); n > 0 {
		avgCost = totalCost.Div(decimal.NewFromInt(int64(n)))
		returnRate = decimal.NewFromInt(int64(returnCount)).Mul(hundred).Div(decimal.NewFromInt(int64(n)))
	}

	return Summary{
		TotalInvoices:      len(invoices),
		TotalPackages:      len(shipments),
		TotalCost:          totalCost,
		TotalFreight:       categoryTotals[domain.CategoryFreight],
		TotalFuelSurcharge: categoryTotals[domain.CategoryFuelSurcharge],
		TotalTax:           categoryTotals[domain.CategoryTax],
		TotalAccessorial:   categoryTotals[domain.CategoryAccessorial],
		AvgCostPerPackage:  avgCost,
		TotalWeightKg:      totalWeight,
		DateRange:          dateRange,
		TopDestination:     topDest,
		ReturnRate:         returnRate,
		Currency:           currency,
	}
}

// Filter returns a new Analyzer over the records matching f. Filtering
// happens at charge-line granularity: a shipment with lines on both
// sides of a date bound keeps only the matching lines, and its summed
// totals shrink accordingly. The new Analyzer rebuilds its own shipment
// table and shares no state with the receiver.
func (a *Analyzer) Filter(f Filter) *Analyzer {
	if f.IsZero() {
		return &Analyzer{logger: a.logger, records: a.records}
	}

	countrySet := stringSet(f.Countries)
	serviceSet := stringSet(f.Services)

	matched := make([]domain.ChargeRecord, 0, len(a.records))
	for i := range a.records {
		r := &a.records[i]
		if f.StartDate != nil && (!r.HasShipmentDate() || r.ShipmentDate.Before(*f.StartDate)) {
			continue
		}
		if f.EndDate != nil && (!r.HasShipmentDate() || r.ShipmentDate.After(*f.EndDate)) {
			continue
		}
		if countrySet != nil {
			if _, ok := countrySet[r.RecipientCountry]; !ok {
				continue
			}
		}
		if serviceSet != nil {
			if _, ok := serviceSet[r.ServiceCode]; !ok {
				continue
			}
		}
		if f.ReturnsOnly && !r.IsReturn {
			continue
		}
		matched = append(matched, *r)
	}

	a.logger.Debug("dataset filtered",
		slog.Int("records_in", len(a.records)),
		slog.Int("records_out", len(matched)))

	return &Analyzer{logger: a.logger, records: matched}
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// countryName resolves an ISO 3166-1 alpha-2 code to a display name,
// falling back to the code itself when the lookup fails.
func countryName(code string) string {
	if code == "" {
		return "Unknown"
	}
	c := countries.ByName(code)
	if c == countries.Unknown {
		return code
	}
	return c.String()
}

// averageOver divides total by n, resolving division by zero to zero.
func averageOver(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

// percentOf returns part/whole as a percentage, resolving division by
// zero to zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}
