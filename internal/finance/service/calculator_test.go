package service

import (
	"testing"

	"backoffice_backend/internal/finance/transport"
)

func TestCalculateInvoice_ExclusivePricing(t *testing.T) {
	req := transport.InvoiceCalculationRequest{
		Items: []transport.InvoiceLineItem{
			{Description: "consulting", Quantity: "1", UnitPriceCents: 10000, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.SubtotalCents != 10000 {
		t.Fatalf("expected subtotal 10000, got %d", result.SubtotalCents)
	}
	if result.VatTotalCents != 2100 {
		t.Fatalf("expected VAT 2100, got %d", result.VatTotalCents)
	}
	if result.TotalCents != 12100 {
		t.Fatalf("expected total 12100, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_InclusivePricing(t *testing.T) {
	req := transport.InvoiceCalculationRequest{
		PricingMode: "inclusive",
		Items: []transport.InvoiceLineItem{
			{Description: "consulting", Quantity: "1", UnitPriceCents: 12100, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.SubtotalCents != 10000 {
		t.Fatalf("expected net subtotal 10000, got %d", result.SubtotalCents)
	}
	if result.VatTotalCents != 2100 {
		t.Fatalf("expected VAT 2100, got %d", result.VatTotalCents)
	}
	if result.TotalCents != 12100 {
		t.Fatalf("expected total 12100, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_ProportionalVATReduction(t *testing.T) {
	req := transport.InvoiceCalculationRequest{
		DiscountType:  "percentage",
		DiscountValue: 10,
		Items: []transport.InvoiceLineItem{
			{Description: "hardware", Quantity: "1", UnitPriceCents: 10000, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.DiscountAmountCents != 1000 {
		t.Fatalf("expected discount 1000, got %d", result.DiscountAmountCents)
	}
	// 10% off the net means 10% less VAT: 2100 * 0.9 = 1890.
	if result.VatTotalCents != 1890 {
		t.Fatalf("expected reduced VAT 1890, got %d", result.VatTotalCents)
	}
	if result.TotalCents != 10890 {
		t.Fatalf("expected total 10890, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_FixedDiscountCappedAtSubtotal(t *testing.T) {
	req := transport.InvoiceCalculationRequest{
		DiscountType:  "fixed",
		DiscountValue: 99999,
		Items: []transport.InvoiceLineItem{
			{Description: "small job", Quantity: "1", UnitPriceCents: 5000, TaxRateBps: 2100},
		},
	}

	result := CalculateInvoice(req)

	if result.DiscountAmountCents != 5000 {
		t.Fatalf("expected discount capped at 5000, got %d", result.DiscountAmountCents)
	}
	if result.VatTotalCents != 0 {
		t.Fatalf("fully discounted invoice owes no VAT, got %d", result.VatTotalCents)
	}
	if result.TotalCents != 0 {
		t.Fatalf("expected total 0, got %d", result.TotalCents)
	}
}

func TestCalculateInvoice_MixedRatesSortedBreakdown(t *testing.T) {
	req := transport.InvoiceCalculationRequest{
		Items: []transport.InvoiceLineItem{
			{Description: "books", Quantity: "2", UnitPriceCents: 1000, TaxRateBps: 900},
			{Description: "electronics", Quantity: "1", UnitPriceCents: 10000, TaxRateBps: 2100},
			{Description: "more books", Quantity: "1", UnitPriceCents: 3000, TaxRateBps: 900},
		},
	}

	result := CalculateInvoice(req)

	if len(result.VatBreakdown) != 2 {
		t.Fatalf("expected 2 VAT rates, got %d", len(result.VatBreakdown))
	}
	if result.VatBreakdown[0].RateBps != 900 || result.VatBreakdown[1].RateBps != 2100 {
		t.Fatalf("breakdown not sorted by rate: %+v", result.VatBreakdown)
	}
	// 9% over 5000 plus 21% over 10000.
	if result.VatBreakdown[0].AmountCents != 450 || result.VatBreakdown[1].AmountCents != 2100 {
		t.Fatalf("breakdown amounts wrong: %+v", result.VatBreakdown)
	}
	if result.TotalCents != 15000+2550 {
		t.Fatalf("expected total 17550, got %d", result.TotalCents)
	}
}

func TestParseQuantityNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"5 x", 5},
		{"10 m2", 10},
		{"3.5 uur", 3.5},
		{"2,5 kg", 2.5},
		{"stuks", 1},
		{"", 1},
		{"0", 1},
		{"-3", 1},
	}
	for _, tc := range cases {
		if got := parseQuantityNumber(tc.in); got != tc.want {
			t.Fatalf("parseQuantityNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCalculateInvoice_EmptyItems(t *testing.T) {
	result := CalculateInvoice(transport.InvoiceCalculationRequest{})

	if result.SubtotalCents != 0 || result.TotalCents != 0 {
		t.Fatalf("empty invoice should total zero, got %+v", result)
	}
	if result.Lines == nil || result.VatBreakdown == nil {
		t.Fatal("empty invoice must return empty, not nil, slices")
	}
}

func TestCalculateInvoice_Deterministic(t *testing.T) {
	req := transport.InvoiceCalculationRequest{
		DiscountType:  "percentage",
		DiscountValue: 7,
		Items: []transport.InvoiceLineItem{
			{Description: "a", Quantity: "3", UnitPriceCents: 1234, TaxRateBps: 2100},
			{Description: "b", Quantity: "1,5", UnitPriceCents: 999, TaxRateBps: 900},
		},
	}

	first := CalculateInvoice(req)
	for i := 0; i < 10; i++ {
		if again := CalculateInvoice(req); again.TotalCents != first.TotalCents {
			t.Fatalf("totals drifted on identical input: %d vs %d", again.TotalCents, first.TotalCents)
		}
	}
}
