package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment is the per-tracking-number fold of all charge lines sharing that
// tracking number. Descriptive fields come from one representative
// descriptor line; the monetary fields sum every charge line for the
// tracking number, whatever its category.
type Shipment struct {
	TrackingNumber   string          `json:"tracking_number"`
	InvoiceNumber    string          `json:"invoice_number,omitempty"`
	InvoiceDate      time.Time       `json:"invoice_date,omitempty"`
	ShipmentDate     time.Time       `json:"shipment_date,omitempty"`
	OrderReference   string          `json:"order_reference,omitempty"`
	ServiceCode      string          `json:"service_code,omitempty"`
	ServiceName      string          `json:"service_name,omitempty"`
	ActualWeight     decimal.Decimal `json:"actual_weight"`
	BilledWeight     decimal.Decimal `json:"billed_weight"`
	SenderName       string          `json:"sender_name,omitempty"`
	SenderCity       string          `json:"sender_city,omitempty"`
	SenderCountry    string          `json:"sender_country,omitempty"`
	RecipientName    string          `json:"recipient_name,omitempty"`
	RecipientCompany string          `json:"recipient_company,omitempty"`
	RecipientCity    string          `json:"recipient_city,omitempty"`
	RecipientCountry string          `json:"recipient_country,omitempty"`
	ShipmentType     string          `json:"shipment_type,omitempty"`
	ShipmentSubtype  string          `json:"shipment_subtype,omitempty"`
	GoodsDescription string          `json:"goods_description,omitempty"`
	IsReturn         bool            `json:"is_return"`
	SourceFile       string          `json:"source_file,omitempty"`

	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	TotalCharge    decimal.Decimal `json:"total_charge"`
	LineCount      int             `json:"line_count"`
}

// WeightDifference returns billed minus actual weight. Negative values mean
// the carrier billed below the scale weight and are retained as-is.
func (s Shipment) WeightDifference() decimal.Decimal {
	return s.BilledWeight.Sub(s.ActualWeight)
}

// HasShipmentDate reports whether the shipment date was parseable.
func (s Shipment) HasShipmentDate() bool {
	return !s.ShipmentDate.IsZero()
}
