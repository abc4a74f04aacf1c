// Package transport defines request and response shapes for the finance API.
package transport

// InvoiceLineItem is one line of an invoice calculation request. Quantity
// is free-form text ("5 x", "3.5 uur", "10 m2"); the numeric prefix is
// parsed and anything unparsable counts as one unit.
type InvoiceLineItem struct {
	Description    string `json:"description" validate:"required,max=500"`
	Quantity       string `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"min=0"`
	TaxRateBps     int    `json:"taxRateBps" validate:"min=0,max=10000"`
}

// InvoiceCalculationRequest computes totals for a set of line items.
// PricingMode "inclusive" means unit prices already contain VAT;
// the default "exclusive" means VAT is added on top.
type InvoiceCalculationRequest struct {
	Items         []InvoiceLineItem `json:"items" validate:"required,min=1,max=200,dive"`
	PricingMode   string            `json:"pricingMode" validate:"omitempty,oneof=inclusive exclusive"`
	DiscountType  string            `json:"discountType" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue int64             `json:"discountValue" validate:"min=0"`
}

// CalculatedLine is one fully priced invoice line.
type CalculatedLine struct {
	Description         string `json:"description"`
	Quantity            string `json:"quantity"`
	UnitPriceCents      int64  `json:"unitPriceCents"`
	TaxRateBps          int    `json:"taxRateBps"`
	TotalBeforeTaxCents int64  `json:"totalBeforeTaxCents"`
	TotalTaxCents       int64  `json:"totalTaxCents"`
	LineTotalCents      int64  `json:"lineTotalCents"`
}

// VatBreakdown is the VAT owed at one rate after discount adjustment.
type VatBreakdown struct {
	RateBps     int   `json:"rateBps"`
	AmountCents int64 `json:"amountCents"`
}

// InvoiceCalculationResponse is the full invoice totals artifact.
type InvoiceCalculationResponse struct {
	Lines               []CalculatedLine `json:"lines"`
	SubtotalCents       int64            `json:"subtotalCents"`
	DiscountAmountCents int64            `json:"discountAmountCents"`
	VatTotalCents       int64            `json:"vatTotalCents"`
	VatBreakdown        []VatBreakdown   `json:"vatBreakdown"`
	TotalCents          int64            `json:"totalCents"`
}

// CategorizeRequest asks for an expense category from a description.
type CategorizeRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
}

// CategorizeResponse names the matched category with the keyword that
// decided it. Confidence is 0 when nothing matched and the fallback
// category was used.
type CategorizeResponse struct {
	Category   string  `json:"category"`
	Keyword    string  `json:"keyword,omitempty"`
	Confidence float64 `json:"confidence"`
}
