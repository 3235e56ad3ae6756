package dataprocessing

// Column positions in the UPS billing data export. The files carry no
// header row; the layout is fixed by the carrier, with optional trailing
// columns depending on the account's export configuration. Positions are
// zero-based.
const (
	colVersion           = 0
	colAccountNumber     = 1
	colShipperNumber     = 2
	colCountryCode       = 3
	colInvoiceDate       = 4
	colInvoiceNumber     = 5
	colInvoiceType       = 6
	colInvoiceTypeDetail = 7
	colVATNumber         = 8
	colCurrency          = 9
	colInvoiceTotal      = 10
	colShipmentDate      = 11
	colReference1        = 13
	colOrderReference    = 15
	colPaymentTerms      = 17
	colPackageIndicator  = 18
	colTrackingNumber    = 20
	colActualWeight      = 26
	colActualWeightUnit  = 27
	colBilledWeight      = 28
	colBilledWeightUnit  = 29
	colPackageType       = 30
	colZone              = 31
	colServiceCode       = 33
	colShipmentType      = 34
	colShipmentSubtype   = 35
	colChargeCategory    = 43
	colChargeCode        = 44
	colChargeDescription = 45
	colDiscountAmount    = 51
	colNetAmount         = 52
	colSenderName        = 67
	colSenderStreet      = 68
	colSenderCity        = 70
	colSenderPostal      = 72
	colSenderCountry     = 73
	colRecipientName     = 74
	colRecipientCompany  = 75
	colRecipientStreet   = 76
	colRecipientCity     = 78
	colRecipientPostal   = 80
	colRecipientCountry  = 81
	colPickupDate        = 116
	colDeliveryDate      = 117
	colDeclaredValue     = 129
	colGoodsDescription  = 130
	colEnteredWeightNote = 174
	colAuditedWeightNote = 175
)
