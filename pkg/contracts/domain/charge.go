// Package domain contains the core domain models for the UPS invoice
// analyzer. These types serve as the single source of truth for all
// layers: the parser produces them, analytics folds them and the
// exporters and API serialize them.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel values used by the UPS billing export layout.
const (
	// PackageLineIndicator marks a row that describes the physical package
	// (weight, service, addresses) rather than an additional charge.
	PackageLineIndicator = "1"

	// ShipmentTypeReturn marks a return shipment.
	ShipmentTypeReturn = "RTN"

	// ShipmentSubtypeImport marks an import shipment carrying duties and
	// brokerage charges at the destination country.
	ShipmentSubtypeImport = "IMP"
)

// Charge category codes as they appear in column 43 of the export.
const (
	CategoryFreight       = "FRT"
	CategoryFuelSurcharge = "FSC"
	CategoryTax           = "TAX"
	CategoryAccessorial   = "ACC"
	CategoryExemption     = "EXM"
	CategoryInformation   = "INF"
	CategoryMiscellaneous = "MSC"
	CategoryBrokerage     = "BRK"
	CategoryGovernment    = "GOV"
	CategoryDeliveryArea  = "DAS"
	CategoryResidential   = "RES"
)

// ChargeRecord is the normalized form of one line from a UPS billing CSV
// export. Every consumer of billing data (the analyzer, exporters, the API)
// works from this structure; raw column positions never leak past the
// parser.
//
// One physical shipment produces several ChargeRecords sharing a tracking
// number: one package-descriptor line (PackageIndicator == "1", category
// FRT) plus zero or more charge-only lines. Monetary fields are decimals;
// absent text values are empty strings; absent dates are the zero time.
// Records are immutable after parsing.
type ChargeRecord struct {
	Version           string          `json:"version,omitempty"`
	AccountNumber     string          `json:"account_number,omitempty"`
	ShipperNumber     string          `json:"shipper_number,omitempty"`
	CountryCode       string          `json:"country_code,omitempty"`
	InvoiceDate       time.Time       `json:"invoice_date,omitempty"`
	InvoiceNumber     string          `json:"invoice_number"`
	InvoiceType       string          `json:"invoice_type,omitempty"`
	InvoiceTypeDetail string          `json:"invoice_type_detail,omitempty"`
	VATNumber         string          `json:"vat_number,omitempty"`
	Currency          string          `json:"currency,omitempty"`
	InvoiceTotal      decimal.Decimal `json:"invoice_total"`
	ShipmentDate      time.Time       `json:"shipment_date,omitempty"`
	Reference1        string          `json:"reference_1,omitempty"`
	OrderReference    string          `json:"order_reference,omitempty"`
	PaymentTerms      string          `json:"payment_terms,omitempty"`
	PackageIndicator  string          `json:"package_indicator,omitempty"`
	TrackingNumber    string          `json:"tracking_number"`
	ActualWeight      decimal.Decimal `json:"actual_weight"`
	ActualWeightUnit  string          `json:"actual_weight_unit,omitempty"`
	BilledWeight      decimal.Decimal `json:"billed_weight"`
	BilledWeightUnit  string          `json:"billed_weight_unit,omitempty"`
	PackageType       string          `json:"package_type,omitempty"`
	Zone              string          `json:"zone,omitempty"`
	ServiceCode       string          `json:"service_code,omitempty"`
	ShipmentType      string          `json:"shipment_type,omitempty"`
	ShipmentSubtype   string          `json:"shipment_subtype,omitempty"`
	ChargeCategory    string          `json:"charge_category,omitempty"`
	ChargeCode        string          `json:"charge_code,omitempty"`
	ChargeDescription string          `json:"charge_description,omitempty"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	SenderName        string          `json:"sender_name,omitempty"`
	SenderStreet      string          `json:"sender_street,omitempty"`
	SenderCity        string          `json:"sender_city,omitempty"`
	SenderPostal      string          `json:"sender_postal,omitempty"`
	SenderCountry     string          `json:"sender_country,omitempty"`
	RecipientName     string          `json:"recipient_name,omitempty"`
	RecipientCompany  string          `json:"recipient_company,omitempty"`
	RecipientStreet   string          `json:"recipient_street,omitempty"`
	RecipientCity     string          `json:"recipient_city,omitempty"`
	RecipientPostal   string          `json:"recipient_postal,omitempty"`
	RecipientCountry  string          `json:"recipient_country,omitempty"`
	PickupDate        time.Time       `json:"pickup_date,omitempty"`
	DeliveryDate      time.Time       `json:"delivery_date,omitempty"`
	DeclaredValue     decimal.Decimal `json:"declared_value"`
	GoodsDescription  string          `json:"goods_description,omitempty"`
	EnteredWeightNote string          `json:"entered_weight_note,omitempty"`
	AuditedWeightNote string          `json:"audited_weight_note,omitempty"`

	// Derived at parse time.
	TotalCharge        decimal.Decimal `json:"total_charge"`
	ServiceName        string          `json:"service_name"`
	ChargeCategoryName string          `json:"charge_category_name"`
	IsPackageLine      bool            `json:"is_package_line"`
	IsReturn           bool            `json:"is_return"`
	WeightDifference   decimal.Decimal `json:"weight_difference"`
	SourceFile         string          `json:"source_file"`
}

// IsDescriptorLine reports whether the record is the preferred source for a
// shipment's descriptive fields: a package line in the freight category.
func (r ChargeRecord) IsDescriptorLine() bool {
	return r.IsPackageLine && r.ChargeCategory == CategoryFreight
}

// IsImport reports whether the record belongs to an import shipment.
func (r ChargeRecord) IsImport() bool {
	return r.ShipmentSubtype == ShipmentSubtypeImport
}

// IsAccessorial reports whether the record is an accessorial surcharge line.
func (r ChargeRecord) IsAccessorial() bool {
	return r.ChargeCategory == CategoryAccessorial
}

// HasShipmentDate reports whether the shipment date was parseable.
func (r ChargeRecord) HasShipmentDate() bool {
	return !r.ShipmentDate.IsZero()
}
