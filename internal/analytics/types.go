package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period selects the bucket size for trend rollups.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Summary holds the high-level statistics for one dataset. Monetary
// fields are in the dataset's billing currency; weights are kilograms.
type Summary struct {
	TotalInvoices      int             `json:"total_invoices"`
	TotalPackages      int             `json:"total_packages"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	TotalFreight       decimal.Decimal `json:"total_freight"`
	TotalFuelSurcharge decimal.Decimal `json:"total_fuel_surcharge"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	TotalAccessorial   decimal.Decimal `json:"total_accessorial"`
	AvgCostPerPackage  decimal.Decimal `json:"avg_cost_per_package"`
	TotalWeightKg      decimal.Decimal `json:"total_weight_kg"`
	DateRange          *DateRange      `json:"date_range,omitempty"`
	TopDestination     string          `json:"top_destination_country,omitempty"`
	ReturnRate         decimal.Decimal `json:"return_rate"`
	Currency           string          `json:"currency"`
}

// DateRange is the span of known shipment dates, formatted 2006-01-02.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CostBreakdownRow is one charge category's share of the dataset.
type CostBreakdownRow struct {
	ChargeCategory     string          `json:"charge_category"`
	ChargeCategoryName string          `json:"charge_category_name"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	TotalCharge        decimal.Decimal `json:"total_charge"`
	Percentage         decimal.Decimal `json:"percentage"`
}

// DestinationRow aggregates shipments delivered to one country.
type DestinationRow struct {
	CountryCode       string          `json:"country_code"`
	CountryName       string          `json:"country_name"`
	PackageCount      int             `json:"package_count"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalWeight       decimal.Decimal `json:"total_weight"`
	ReturnCount       int             `json:"return_count"`
	AvgCostPerPackage decimal.Decimal `json:"avg_cost_per_package"`
	ReturnRate        decimal.Decimal `json:"return_rate"`
}

// TrendRow aggregates shipments in one time bucket.
type TrendRow struct {
	Period            string          `json:"period"`
	PackageCount      int             `json:"package_count"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalWeight       decimal.Decimal `json:"total_weight"`
	AvgCostPerPackage decimal.Decimal `json:"avg_cost_per_package"`
}

// ReturnsAnalysis describes return shipments. HasData is false when the
// dataset contains no returns; the remaining fields are then zero-valued.
type ReturnsAnalysis struct {
	HasData   bool               `json:"has_data"`
	Summary   ReturnsSummary     `json:"summary"`
	ByReason  []ReturnReasonRow  `json:"by_reason"`
	ByCountry []ReturnCountryRow `json:"by_country"`
}

// ReturnsSummary holds the headline return figures.
type ReturnsSummary struct {
	TotalReturns    int             `json:"total_returns"`
	TotalReturnCost decimal.Decimal `json:"total_return_cost"`
	ReturnRate      decimal.Decimal `json:"return_rate"`
	AvgReturnCost   decimal.Decimal `json:"avg_return_cost"`
}

// ReturnReasonRow groups returns by shipment subtype. The billing data
// carries no true reason code; the subtype (e.g. RTS for return to
// sender) is the closest available indicator.
type ReturnReasonRow struct {
	Reason    string          `json:"reason"`
	Count     int             `json:"count"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ReturnCountryRow groups returns by sender country. For a return the
// sender is the customer shipping the package back, so sender country
// answers "where are returns coming from".
type ReturnCountryRow struct {
	CountryCode string          `json:"country_code"`
	CountryName string          `json:"country_name"`
	ReturnCount int             `json:"return_count"`
	ReturnCost  decimal.Decimal `json:"return_cost"`
}

// WeightsAnalysis compares actual against billed weight. HasData is
// false when no shipment has a nonzero weight.
type WeightsAnalysis struct {
	HasData      bool              `json:"has_data"`
	Summary      WeightsSummary    `json:"summary"`
	Distribution []WeightBucketRow `json:"distribution"`
	Detail       []WeightDetailRow `json:"detail"`
}

// WeightsSummary holds aggregate weight figures. WeightPremium is the
// percentage by which billed weight exceeds actual weight overall.
type WeightsSummary struct {
	TotalActualWeight     decimal.Decimal `json:"total_actual_weight"`
	TotalBilledWeight     decimal.Decimal `json:"total_billed_weight"`
	AvgActualWeight       decimal.Decimal `json:"avg_actual_weight"`
	AvgBilledWeight       decimal.Decimal `json:"avg_billed_weight"`
	WeightPremium         decimal.Decimal `json:"weight_premium"`
	PackagesWithDimWeight int             `json:"packages_with_dim_weight"`
}

// WeightBucketRow is one billed-weight range of the distribution.
type WeightBucketRow struct {
	WeightRange  string          `json:"weight_range"`
	PackageCount int             `json:"package_count"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// WeightDetailRow is the per-shipment weight comparison.
type WeightDetailRow struct {
	TrackingNumber string          `json:"tracking_number"`
	ActualWeight   decimal.Decimal `json:"actual_weight"`
	BilledWeight   decimal.Decimal `json:"billed_weight"`
	WeightDiff     decimal.Decimal `json:"weight_diff"`
}

// ServiceRow aggregates shipments carried under one service.
type ServiceRow struct {
	ServiceCode       string          `json:"service_code"`
	ServiceName       string          `json:"service_name"`
	PackageCount      int             `json:"package_count"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalWeight       decimal.Decimal `json:"total_weight"`
	AvgCostPerPackage decimal.Decimal `json:"avg_cost_per_package"`
}

// DutiesAnalysis describes import duty and brokerage charges, taken from
// charge lines with the import shipment subtype. HasData is false when
// the dataset has no import lines.
type DutiesAnalysis struct {
	HasData      bool                `json:"has_data"`
	Summary      DutiesSummary       `json:"summary"`
	ByChargeType []DutyChargeTypeRow `json:"by_charge_type"`
	ByCountry    []DutyCountryRow    `json:"by_country"`
	Detail       []DutyDetailRow     `json:"detail"`
}

// DutiesSummary splits import costs into brokerage, customs and the
// rest.
type DutiesSummary struct {
	TotalCost          decimal.Decimal `json:"total_cost"`
	ShipmentCount      int             `json:"shipment_count"`
	BrokerageCost      decimal.Decimal `json:"brokerage_cost"`
	CustomsCost        decimal.Decimal `json:"customs_cost"`
	OtherCost          decimal.Decimal `json:"other_cost"`
	AvgCostPerShipment decimal.Decimal `json:"avg_cost_per_shipment"`
}

// DutyChargeTypeRow is one charge category within the import subset.
type DutyChargeTypeRow struct {
	ChargeCategory string          `json:"charge_category"`
	ChargeName     string          `json:"charge_name"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	ShipmentCount  int             `json:"shipment_count"`
}

// DutyCountryRow aggregates import costs by destination country.
type DutyCountryRow struct {
	CountryCode        string          `json:"country_code"`
	CountryName        string          `json:"country_name"`
	ShipmentCount      int             `json:"shipment_count"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	AvgCostPerShipment decimal.Decimal `json:"avg_cost_per_shipment"`
}

// DutyDetailRow is the per-shipment import cost breakdown. Brokerage
// and customs are zero when the shipment has no line in that category.
type DutyDetailRow struct {
	TrackingNumber string          `json:"tracking_number"`
	Country        string          `json:"country"`
	Recipient      string          `json:"recipient"`
	City           string          `json:"city"`
	OrderReference string          `json:"order_reference"`
	ShipmentDate   time.Time       `json:"shipment_date,omitempty"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	BrokerageCost  decimal.Decimal `json:"brokerage_cost"`
	CustomsCost    decimal.Decimal `json:"customs_cost"`
}

// AccessorialsAnalysis describes accessorial surcharges. HasData is
// false when the dataset has no accessorial lines.
type AccessorialsAnalysis struct {
	HasData      bool                    `json:"has_data"`
	Summary      AccessorialsSummary     `json:"summary"`
	ByChargeCode []AccessorialChargeRow  `json:"by_charge_code"`
	ByCountry    []AccessorialCountryRow `json:"by_country"`
	Trends       []AccessorialTrendRow   `json:"trends"`
}

// AccessorialsSummary names the surcharge groups that dominate UPS
// bills: residential delivery, peak/surge fees and delivery area
// surcharges.
type AccessorialsSummary struct {
	TotalCost         decimal.Decimal `json:"total_cost"`
	ChargeCount       int             `json:"charge_count"`
	ShipmentCount     int             `json:"shipment_count"`
	ResidentialCost   decimal.Decimal `json:"residential_cost"`
	SurgeCost         decimal.Decimal `json:"surge_cost"`
	AreaSurchargeCost decimal.Decimal `json:"area_surcharge_cost"`
	AvgPerShipment    decimal.Decimal `json:"avg_per_shipment"`
}

// AccessorialChargeRow is one accessorial charge code's total.
type AccessorialChargeRow struct {
	ChargeCode    string          `json:"charge_code"`
	Description   string          `json:"description"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	ShipmentCount int             `json:"shipment_count"`
}

// AccessorialCountryRow aggregates accessorial costs by destination
// country.
type AccessorialCountryRow struct {
	CountryCode    string          `json:"country_code"`
	CountryName    string          `json:"country_name"`
	ShipmentCount  int             `json:"shipment_count"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	AvgPerShipment decimal.Decimal `json:"avg_per_shipment"`
}

// AccessorialTrendRow is one month of accessorial spend.
type AccessorialTrendRow struct {
	Period        string          `json:"period"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	ShipmentCount int             `json:"shipment_count"`
}

// Filter describes a charge-line subset. Nil or empty fields mean "no
// constraint". Date bounds are inclusive and compare against the
// shipment date; records without a shipment date never match a date
// bound.
type Filter struct {
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Countries   []string   `json:"countries,omitempty"`
	Services    []string   `json:"services,omitempty"`
	ReturnsOnly bool       `json:"returns_only,omitempty"`
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.StartDate == nil && f.EndDate == nil &&
		len(f.Countries) == 0 && len(f.Services) == 0 && !f.ReturnsOnly
}
