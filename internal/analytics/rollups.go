package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"upscli/pkg/contracts/domain"
)

// Accessorial charge codes with named subtotals in the summary.
var (
	surgeChargeCodes         = map[string]struct{}{"PFR": {}, "PFC": {}}
	areaSurchargeChargeCodes = map[string]struct{}{"RDS": {}, "ESD": {}, "LDS": {}, "HIS": {}, "AKS": {}}
)

const residentialChargeCode = "RES"

// CostBreakdown groups the charge-line table by charge category and
// reports each category's share of the grand total. Rows are sorted by
// total charge, largest first. Lines without a category code are not
// represented.
func (a *Analyzer) CostBreakdown() []CostBreakdownRow {
	type group struct {
		name     string
		discount decimal.Decimal
		net      decimal.Decimal
		total    decimal.Decimal
	}
	groups := make(map[string]*group)
	for i := range a.records {
		r := &a.records[i]
		if r.ChargeCategory == "" {
			continue
		}
		g, ok := groups[r.ChargeCategory]
		if !ok {
			g = &group{name: r.ChargeCategoryName}
			groups[r.ChargeCategory] = g
		}
		g.discount = g.discount.Add(r.DiscountAmount)
		g.net = g.net.Add(r.NetAmount)
		g.total = g.total.Add(r.TotalCharge)
	}

	var grand decimal.Decimal
	for _, g := range groups {
		grand = grand.Add(g.total)
	}

	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := make([]CostBreakdownRow, 0, len(groups))
	for _, category := range categories {
		g := groups[category]
		rows = append(rows, CostBreakdownRow{
			ChargeCategory:     category,
			ChargeCategoryName: g.name,
			DiscountAmount:     g.discount,
			NetAmount:          g.net,
			TotalCharge:        g.total,
			Percentage:         percentOf(g.total, grand).Round(2),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalCharge.GreaterThan(rows[j].TotalCharge)
	})
	return rows
}

// ByDestination groups the shipment table by recipient country. Rows
// are sorted by total cost, largest first; shipments without a
// recipient country are not represented.
func (a *Analyzer) ByDestination() []DestinationRow {
	type group struct {
		packages int
		cost     decimal.Decimal
		weight   decimal.Decimal
		returns  int
	}
	groups := make(map[string]*group)
	for _, s := range a.Shipments() {
		if s.RecipientCountry == "" {
			continue
		}
		g, ok := groups[s.RecipientCountry]
		if !ok {
			g = &group{}
			groups[s.RecipientCountry] = g
		}
		g.packages++
		g.cost = g.cost.Add(s.TotalCharge)
		g.weight = g.weight.Add(s.BilledWeight)
		if s.IsReturn {
			g.returns++
		}
	}

	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([]DestinationRow, 0, len(groups))
	for _, code := range codes {
		g := groups[code]
		rows = append(rows, DestinationRow{
			CountryCode:       code,
			CountryName:       countryName(code),
			PackageCount:      g.packages,
			TotalCost:         g.cost,
			TotalWeight:       g.weight,
			ReturnCount:       g.returns,
			AvgCostPerPackage: averageOver(g.cost, g.packages).Round(2),
			ReturnRate:        percentOf(decimal.NewFromInt(int64(g.returns)), decimal.NewFromInt(int64(g.packages))).Round(2),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalCost.GreaterThan(rows[j].TotalCost)
	})
	return rows
}

// Trends buckets the shipment table by ISO week or calendar month and
// reports cost and volume per bucket, in chronological order. Shipments
// without a shipment date are not represented.
func (a *Analyzer) Trends(period Period) []TrendRow {
	type group struct {
		packages int
		cost     decimal.Decimal
		weight   decimal.Decimal
	}
	groups := make(map[string]*group)
	for _, s := range a.Shipments() {
		if !s.HasShipmentDate() {
			continue
		}
		label := periodLabel(s.ShipmentDate, period)
		g, ok := groups[label]
		if !ok {
			g = &group{}
			groups[label] = g
		}
		g.packages++
		g.cost = g.cost.Add(s.TotalCharge)
		g.weight = g.weight.Add(s.BilledWeight)
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([]TrendRow, 0, len(groups))
	for _, label := range labels {
		g := groups[label]
		rows = append(rows, TrendRow{
			Period:            label,
			PackageCount:      g.packages,
			TotalCost:         g.cost,
			TotalWeight:       g.weight,
			AvgCostPerPackage: averageOver(g.cost, g.packages).Round(2),
		})
	}
	return rows
}

// periodLabel formats a shipment date as an ISO week ("2026-W03") or a
// calendar month ("2026-01") bucket label. Both sort chronologically as
// plain strings.
func periodLabel(t time.Time, period Period) string {
	if period == PeriodWeek {
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return t.Format("2006-01")
}

// Returns analyzes return shipments by subtype and by the country the
// return was sent from. With no returns in the dataset the result has
// HasData false and empty tables.
func (a *Analyzer) Returns() ReturnsAnalysis {
	result := ReturnsAnalysis{
		ByReason:  []ReturnReasonRow{},
		ByCountry: []ReturnCountryRow{},
	}

	shipments := a.Shipments()
	var returns []domain.Shipment
	for _, s := range shipments {
		if s.IsReturn {
			returns = append(returns, s)
		}
	}
	if len(returns) == 0 {
		return result
	}
	result.HasData = true

	var returnCost decimal.Decimal
	for _, s := range returns {
		returnCost = returnCost.Add(s.TotalCharge)
	}
	result.Summary = ReturnsSummary{
		TotalReturns:    len(returns),
		TotalReturnCost: returnCost,
		ReturnRate:      percentOf(decimal.NewFromInt(int64(len(returns))), decimal.NewFromInt(int64(len(shipments)))),
		AvgReturnCost:   averageOver(returnCost, len(returns)),
	}

	type reasonGroup struct {
		count int
		cost  decimal.Decimal
	}
	reasons := make(map[string]*reasonGroup)
	for _, s := range returns {
		if s.ShipmentSubtype == "" {
			continue
		}
		g, ok := reasons[s.ShipmentSubtype]
		if !ok {
			g = &reasonGroup{}
			reasons[s.ShipmentSubtype] = g
		}
		g.count++
		g.cost = g.cost.Add(s.TotalCharge)
	}
	reasonKeys := make([]string, 0, len(reasons))
	for reason := range reasons {
		reasonKeys = append(reasonKeys, reason)
	}
	sort.Strings(reasonKeys)
	for _, reason := range reasonKeys {
		g := reasons[reason]
		result.ByReason = append(result.ByReason, ReturnReasonRow{
			Reason:    reason,
			Count:     g.count,
			TotalCost: g.cost,
		})
	}
	sort.SliceStable(result.ByReason, func(i, j int) bool {
		return result.ByReason[i].Count > result.ByReason[j].Count
	})

	type countryGroup struct {
		count int
		cost  decimal.Decimal
	}
	countriesByCode := make(map[string]*countryGroup)
	for _, s := range returns {
		if s.SenderCountry == "" {
			continue
		}
		g, ok := countriesByCode[s.SenderCountry]
		if !ok {
			g = &countryGroup{}
			countriesByCode[s.SenderCountry] = g
		}
		g.count++
		g.cost = g.cost.Add(s.TotalCharge)
	}
	countryCodes := make([]string, 0, len(countriesByCode))
	for code := range countriesByCode {
		countryCodes = append(countryCodes, code)
	}
	sort.Strings(countryCodes)
	for _, code := range countryCodes {
		g := countriesByCode[code]
		result.ByCountry = append(result.ByCountry, ReturnCountryRow{
			CountryCode: code,
			CountryName: countryName(code),
			ReturnCount: g.count,
			ReturnCost:  g.cost,
		})
	}
	sort.SliceStable(result.ByCountry, func(i, j int) bool {
		return result.ByCountry[i].ReturnCount > result.ByCountry[j].ReturnCount
	})

	return result
}

// weightBucketBounds are the upper bounds of the billed-weight ranges,
// in kilograms. Each range includes its lower bound and excludes its
// upper bound; the last range is open-ended.
var weightBucketBounds = []struct {
	label string
	upper decimal.Decimal
}{
	{"0-0.5kg", decimal.NewFromFloat(0.5)},
	{"0.5-1kg", decimal.NewFromInt(1)},
	{"1-2kg", decimal.NewFromInt(2)},
	{"2-5kg", decimal.NewFromInt(5)},
	{"5-10kg", decimal.NewFromInt(10)},
	{"10-20kg", decimal.NewFromInt(20)},
	{"20-50kg", decimal.NewFromInt(50)},
	{"50kg+", decimal.Decimal{}},
}

func weightBucket(billed decimal.Decimal) int {
	for i := 0; i < len(weightBucketBounds)-1; i++ {
		if billed.LessThan(weightBucketBounds[i].upper) {
			return i
		}
	}
	return len(weightBucketBounds) - 1
}

// Weights compares actual against billed weight for every shipment that
// has a nonzero weight, and buckets the billed weights into fixed
// ranges. With no weighed shipments the result has HasData false.
func (a *Analyzer) Weights() WeightsAnalysis {
	result := WeightsAnalysis{
		Distribution: []WeightBucketRow{},
		Detail:       []WeightDetailRow{},
	}

	var weighed []domain.Shipment
	for _, s := range a.Shipments() {
		if s.BilledWeight.IsPositive() || s.ActualWeight.IsPositive() {
			weighed = append(weighed, s)
		}
	}
	if len(weighed) == 0 {
		return result
	}
	result.HasData = true

	var totalActual, totalBilled decimal.Decimal
	dimCount := 0
	bucketCounts := make([]int, len(weightBucketBounds))
	bucketCosts := make([]decimal.Decimal, len(weightBucketBounds))
	for _, s := range weighed {
		totalActual = totalActual.Add(s.ActualWeight)
		totalBilled = totalBilled.Add(s.BilledWeight)
		if s.WeightDifference().IsPositive() {
			dimCount++
		}
		b := weightBucket(s.BilledWeight)
		bucketCounts[b]++
		bucketCosts[b] = bucketCosts[b].Add(s.TotalCharge)

		result.Detail = append(result.Detail, WeightDetailRow{
			TrackingNumber: s.TrackingNumber,
			ActualWeight:   s.ActualWeight,
			BilledWeight:   s.BilledWeight,
			WeightDiff:     s.WeightDifference(),
		})
	}

	result.Summary = WeightsSummary{
		TotalActualWeight:     totalActual,
		TotalBilledWeight:     totalBilled,
		AvgActualWeight:       averageOver(totalActual, len(weighed)),
		AvgBilledWeight:       averageOver(totalBilled, len(weighed)),
		WeightPremium:         percentOf(totalBilled.Sub(totalActual), totalActual),
		PackagesWithDimWeight: dimCount,
	}

	for i, bounds := range weightBucketBounds {
		if bucketCounts[i] == 0 {
			continue
		}
		result.Distribution = append(result.Distribution, WeightBucketRow{
			WeightRange:  bounds.label,
			PackageCount: bucketCounts[i],
			TotalCost:    bucketCosts[i],
		})
	}

	return result
}

// Services groups the shipment table by service code and name. Rows are
// sorted by total cost, largest first; shipments without a service code
// are not represented.
func (a *Analyzer) Services() []ServiceRow {
	type key struct {
		code string
		name string
	}
	type group struct {
		packages int
		cost     decimal.Decimal
		weight   decimal.Decimal
	}
	groups := make(map[key]*group)
	for _, s := range a.Shipments() {
		if s.ServiceCode == "" {
			continue
		}
		k := key{code: s.ServiceCode, name: s.ServiceName}
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
		}
		g.packages++
		g.cost = g.cost.Add(s.TotalCharge)
		g.weight = g.weight.Add(s.BilledWeight)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].name < keys[j].name
	})

	rows := make([]ServiceRow, 0, len(groups))
	for _, k := range keys {
		g := groups[k]
		rows = append(rows, ServiceRow{
			ServiceCode:       k.code,
			ServiceName:       k.name,
			PackageCount:      g.packages,
			TotalCost:         g.cost,
			TotalWeight:       g.weight,
			AvgCostPerPackage: averageOver(g.cost, g.packages).Round(2),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalCost.GreaterThan(rows[j].TotalCost)
	})
	return rows
}

// impShipment folds the import charge lines of one tracking number.
// Descriptive fields take the first non-empty value in input order.
type impShipment struct {
	tracking  string
	country   string
	recipient string
	city      string
	orderRef  string
	date      time.Time
	total     decimal.Decimal
	brokerage decimal.Decimal
	customs   decimal.Decimal
}

// DutiesAndBrokerage analyzes import duty and brokerage charges, which
// appear on charge lines with the import shipment subtype, typically
// under free domicile payment terms where the shipper pays destination
// import costs. With no import lines the result has HasData false.
func (a *Analyzer) DutiesAndBrokerage() DutiesAnalysis {
	result := DutiesAnalysis{
		ByChargeType: []DutyChargeTypeRow{},
		ByCountry:    []DutyCountryRow{},
		Detail:       []DutyDetailRow{},
	}

	var imports []*domain.ChargeRecord
	for i := range a.records {
		if a.records[i].IsImport() {
			imports = append(imports, &a.records[i])
		}
	}
	if len(imports) == 0 {
		return result
	}
	result.HasData = true

	var totalCost, brokerageCost, customsCost decimal.Decimal
	for _, r := range imports {
		totalCost = totalCost.Add(r.NetAmount)
		switch r.ChargeCategory {
		case domain.CategoryBrokerage:
			brokerageCost = brokerageCost.Add(r.NetAmount)
		case domain.CategoryGovernment:
			customsCost = customsCost.Add(r.NetAmount)
		}
	}

	type chargeTypeGroup struct {
		name      string
		cost      decimal.Decimal
		trackings map[string]struct{}
	}
	chargeTypes := make(map[string]*chargeTypeGroup)
	for _, r := range imports {
		if r.ChargeCategory == "" {
			continue
		}
		g, ok := chargeTypes[r.ChargeCategory]
		if !ok {
			g = &chargeTypeGroup{name: r.ChargeCategoryName, trackings: make(map[string]struct{})}
			chargeTypes[r.ChargeCategory] = g
		}
		g.cost = g.cost.Add(r.NetAmount)
		if r.TrackingNumber != "" {
			g.trackings[r.TrackingNumber] = struct{}{}
		}
	}
	chargeTypeKeys := make([]string, 0, len(chargeTypes))
	for category := range chargeTypes {
		chargeTypeKeys = append(chargeTypeKeys, category)
	}
	sort.Strings(chargeTypeKeys)
	for _, category := range chargeTypeKeys {
		g := chargeTypes[category]
		result.ByChargeType = append(result.ByChargeType, DutyChargeTypeRow{
			ChargeCategory: category,
			ChargeName:     g.name,
			TotalCost:      g.cost,
			ShipmentCount:  len(g.trackings),
		})
	}
	sort.SliceStable(result.ByChargeType, func(i, j int) bool {
		return result.ByChargeType[i].TotalCost.GreaterThan(result.ByChargeType[j].TotalCost)
	})

	folds := make(map[string]*impShipment)
	for _, r := range imports {
		if r.TrackingNumber == "" {
			continue
		}
		f, ok := folds[r.TrackingNumber]
		if !ok {
			f = &impShipment{tracking: r.TrackingNumber}
			folds[r.TrackingNumber] = f
		}
		if f.country == "" {
			f.country = r.RecipientCountry
		}
		if f.recipient == "" {
			f.recipient = r.RecipientName
		}
		if f.city == "" {
			f.city = r.RecipientCity
		}
		if f.orderRef == "" {
			f.orderRef = r.OrderReference
		}
		if f.date.IsZero() {
			f.date = r.ShipmentDate
		}
		f.total = f.total.Add(r.NetAmount)
		switch r.ChargeCategory {
		case domain.CategoryBrokerage:
			f.brokerage = f.brokerage.Add(r.NetAmount)
		case domain.CategoryGovernment:
			f.customs = f.customs.Add(r.NetAmount)
		}
	}

	result.Summary = DutiesSummary{
		TotalCost:          totalCost,
		ShipmentCount:      len(folds),
		BrokerageCost:      brokerageCost,
		CustomsCost:        customsCost,
		OtherCost:          totalCost.Sub(brokerageCost).Sub(customsCost),
		AvgCostPerShipment: averageOver(totalCost, len(folds)),
	}

	type countryGroup struct {
		shipments int
		cost      decimal.Decimal
	}
	byCountry := make(map[string]*countryGroup)
	for _, f := range folds {
		if f.country == "" {
			continue
		}
		g, ok := byCountry[f.country]
		if !ok {
			g = &countryGroup{}
			byCountry[f.country] = g
		}
		g.shipments++
		g.cost = g.cost.Add(f.total)
	}
	dutyCountryCodes := make([]string, 0, len(byCountry))
	for code := range byCountry {
		dutyCountryCodes = append(dutyCountryCodes, code)
	}
	sort.Strings(dutyCountryCodes)
	for _, code := range dutyCountryCodes {
		g := byCountry[code]
		result.ByCountry = append(result.ByCountry, DutyCountryRow{
			CountryCode:        code,
			CountryName:        countryName(code),
			ShipmentCount:      g.shipments,
			TotalCost:          g.cost,
			AvgCostPerShipment: averageOver(g.cost, g.shipments).Round(2),
		})
	}
	sort.SliceStable(result.ByCountry, func(i, j int) bool {
		return result.ByCountry[i].TotalCost.GreaterThan(result.ByCountry[j].TotalCost)
	})

	trackings := make([]string, 0, len(folds))
	for tracking := range folds {
		trackings = append(trackings, tracking)
	}
	sort.Strings(trackings)
	for _, tracking := range trackings {
		f := folds[tracking]
		result.Detail = append(result.Detail, DutyDetailRow{
			TrackingNumber: f.tracking,
			Country:        f.country,
			Recipient:      f.recipient,
			City:           f.city,
			OrderReference: f.orderRef,
			ShipmentDate:   f.date,
			TotalCost:      f.total,
			BrokerageCost:  f.brokerage,
			CustomsCost:    f.customs,
		})
	}
	sort.SliceStable(result.Detail, func(i, j int) bool {
		return result.Detail[i].TotalCost.GreaterThan(result.Detail[j].TotalCost)
	})

	return result
}

// Accessorials analyzes accessorial surcharge lines. Country rows join
// each surcharge to the first recipient country seen for its tracking
// number anywhere in the dataset, because accessorial lines themselves
// often omit address fields. With no accessorial lines the result has
// HasData false.
func (a *Analyzer) Accessorials() AccessorialsAnalysis {
	result := AccessorialsAnalysis{
		ByChargeCode: []AccessorialChargeRow{},
		ByCountry:    []AccessorialCountryRow{},
		Trends:       []AccessorialTrendRow{},
	}

	var accessorials []*domain.ChargeRecord
	for i := range a.records {
		if a.records[i].IsAccessorial() {
			accessorials = append(accessorials, &a.records[i])
		}
	}
	if len(accessorials) == 0 {
		return result
	}
	result.HasData = true

	var totalCost, residentialCost, surgeCost, areaCost decimal.Decimal
	allTrackings := make(map[string]struct{})
	for _, r := range accessorials {
		totalCost = totalCost.Add(r.NetAmount)
		if r.TrackingNumber != "" {
			allTrackings[r.TrackingNumber] = struct{}{}
		}
		if r.ChargeCode == residentialChargeCode {
			residentialCost = residentialCost.Add(r.NetAmount)
		}
		if _, ok := surgeChargeCodes[r.ChargeCode]; ok {
			surgeCost = surgeCost.Add(r.NetAmount)
		}
		if _, ok := areaSurchargeChargeCodes[r.ChargeCode]; ok {
			areaCost = areaCost.Add(r.NetAmount)
		}
	}
	result.Summary = AccessorialsSummary{
		TotalCost:         totalCost,
		ChargeCount:       len(accessorials),
		ShipmentCount:     len(allTrackings),
		ResidentialCost:   residentialCost,
		SurgeCost:         surgeCost,
		AreaSurchargeCost: areaCost,
		AvgPerShipment:    averageOver(totalCost, len(allTrackings)),
	}

	type codeKey struct {
		code        string
		description string
	}
	type codeGroup struct {
		cost      decimal.Decimal
		trackings map[string]struct{}
	}
	byCode := make(map[codeKey]*codeGroup)
	for _, r := range accessorials {
		if r.ChargeCode == "" || r.ChargeDescription == "" {
			continue
		}
		k := codeKey{code: r.ChargeCode, description: r.ChargeDescription}
		g, ok := byCode[k]
		if !ok {
			g = &codeGroup{trackings: make(map[string]struct{})}
			byCode[k] = g
		}
		g.cost = g.cost.Add(r.NetAmount)
		if r.TrackingNumber != "" {
			g.trackings[r.TrackingNumber] = struct{}{}
		}
	}
	codeKeys := make([]codeKey, 0, len(byCode))
	for k := range byCode {
		codeKeys = append(codeKeys, k)
	}
	sort.Slice(codeKeys, func(i, j int) bool {
		if codeKeys[i].code != codeKeys[j].code {
			return codeKeys[i].code < codeKeys[j].code
		}
		return codeKeys[i].description < codeKeys[j].description
	})
	for _, k := range codeKeys {
		g := byCode[k]
		result.ByChargeCode = append(result.ByChargeCode, AccessorialChargeRow{
			ChargeCode:    k.code,
			Description:   k.description,
			TotalCost:     g.cost,
			ShipmentCount: len(g.trackings),
		})
	}
	sort.SliceStable(result.ByChargeCode, func(i, j int) bool {
		return result.ByChargeCode[i].TotalCost.GreaterThan(result.ByChargeCode[j].TotalCost)
	})

	// Country per tracking comes from the full dataset, not just the
	// accessorial subset.
	trackingCountry := make(map[string]string)
	for i := range a.records {
		r := &a.records[i]
		if r.TrackingNumber == "" || r.RecipientCountry == "" {
			continue
		}
		if _, ok := trackingCountry[r.TrackingNumber]; !ok {
			trackingCountry[r.TrackingNumber] = r.RecipientCountry
		}
	}
	accCostPerTracking := make(map[string]decimal.Decimal)
	for _, r := range accessorials {
		if r.TrackingNumber == "" {
			continue
		}
		accCostPerTracking[r.TrackingNumber] = accCostPerTracking[r.TrackingNumber].Add(r.NetAmount)
	}
	type countryGroup struct {
		shipments int
		cost      decimal.Decimal
	}
	byCountry := make(map[string]*countryGroup)
	for tracking, cost := range accCostPerTracking {
		country := trackingCountry[tracking]
		if country == "" {
			continue
		}
		g, ok := byCountry[country]
		if !ok {
			g = &countryGroup{}
			byCountry[country] = g
		}
		g.shipments++
		g.cost = g.cost.Add(cost)
	}
	accCountryCodes := make([]string, 0, len(byCountry))
	for code := range byCountry {
		accCountryCodes = append(accCountryCodes, code)
	}
	sort.Strings(accCountryCodes)
	for _, code := range accCountryCodes {
		g := byCountry[code]
		result.ByCountry = append(result.ByCountry, AccessorialCountryRow{
			CountryCode:    code,
			CountryName:    countryName(code),
			ShipmentCount:  g.shipments,
			TotalCost:      g.cost,
			AvgPerShipment: averageOver(g.cost, g.shipments).Round(2),
		})
	}
	sort.SliceStable(result.ByCountry, func(i, j int) bool {
		return result.ByCountry[i].TotalCost.GreaterThan(result.ByCountry[j].TotalCost)
	})

	type trendGroup struct {
		cost      decimal.Decimal
		trackings map[string]struct{}
	}
	trends := make(map[string]*trendGroup)
	for _, r := range accessorials {
		if !r.HasShipmentDate() {
			continue
		}
		label := r.ShipmentDate.Format("2006-01")
		g, ok := trends[label]
		if !ok {
			g = &trendGroup{trackings: make(map[string]struct{})}
			trends[label] = g
		}
		g.cost = g.cost.Add(r.NetAmount)
		if r.TrackingNumber != "" {
			g.trackings[r.TrackingNumber] = struct{}{}
		}
	}
	trendLabels := make([]string, 0, len(trends))
	for label := range trends {
		trendLabels = append(trendLabels, label)
	}
	sort.Strings(trendLabels)
	for _, label := range trendLabels {
		g := trends[label]
		result.Trends = append(result.Trends, AccessorialTrendRow{
			Period:        label,
			TotalCost:     g.cost,
			ShipmentCount: len(g.trackings),
		})
	}

	return result
}

// TopExpenses returns the n shipments with the greatest total charge,
// most expensive first. Ties keep the shipment table's order.
func (a *Analyzer) TopExpenses(n int) []domain.Shipment {
	shipments := a.Shipments()
	if n <= 0 {
		return []domain.Shipment{}
	}

	top := make([]domain.Shipment, len(shipments))
	copy(top, shipments)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalCharge.GreaterThan(top[j].TotalCharge)
	})
	if n < len(top) {
		top = top[:n]
	}
	return top
}
