package domain

// chargeCategoryNames maps charge category codes to display labels.
// Loaded once, never mutated.
var chargeCategoryNames = map[string]string{
	CategoryFreight:       "Freight",
	CategoryFuelSurcharge: "Fuel Surcharge",
	CategoryTax:           "Tax (VAT)",
	CategoryAccessorial:   "Accessorial",
	CategoryExemption:     "Exemption/Credit",
	CategoryInformation:   "Information Only",
	CategoryMiscellaneous: "Miscellaneous",
	CategoryBrokerage:     "Brokerage",
	CategoryGovernment:    "Government Charges",
	CategoryDeliveryArea:  "Delivery Area Surcharge",
	CategoryResidential:   "Residential Surcharge",
}

// serviceCodeNames maps legacy service codes to service names. A single
// code can map to different services depending on route and tier, so the
// freight line's charge description is the authoritative source for the
// service name. This table is a last-resort fallback only.
var serviceCodeNames = map[string]string{
	"007": "WW Express Saver",
	"704": "WW Standard",
	"004": "TB Standard",
	"003": "TB Standard",
	"005": "TB Standard",
	"031": "TB Standard",
	"041": "TB Standard",
	"000": "Address Correction",
	"353": "TB Standard Undeliverable Return",
	"354": "TB Standard Undeliverable Return",
	"355": "TB Standard Undeliverable Return",
	"402": "TB Standard Undeliverable Return",
	"755": "WW Standard Undeliverable Return",
	"857": "WW Express Saver Undeliverable Return",
	"001": "Dom. Standard",
}

// ChargeCategoryLabel resolves a charge category code to its display label.
// Unknown codes resolve to "Other".
func ChargeCategoryLabel(code string) string {
	if name, ok := chargeCategoryNames[code]; ok {
		return name
	}
	return "Other"
}

// ServiceNameForCode resolves a legacy service code to a service name.
// Unknown codes resolve to "Other". See serviceCodeNames for why this is a
// fallback and not the primary source.
func ServiceNameForCode(code string) string {
	if name, ok := serviceCodeNames[code]; ok {
		return name
	}
	return "Other"
}
