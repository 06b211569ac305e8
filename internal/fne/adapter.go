package fne

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mohessea007/FNE/internal/types"
)

// Tax code translation between internal VAT codes and the authority schema.
// Current codes carry the rate suffix; the authority expects the bare family.
// Legacy codes already match the authority schema and pass through unchanged.
var wireTaxCodes = map[string]string{
	types.TaxCodeTVA18: "TVA",
	types.TaxCodeTVAB9: "TVAB",
	types.TaxCodeTVAC0: "TVAC",
	"TVA":              "TVA",
	"TVAB":             "TVAB",
	"TVAC":             "TVAC",
	"TVAD":             "TVAD",
	"TVAE":             "TVAE",
}

// ConvertTaxCodes maps internal tax codes to the authority's codes. Entries
// may themselves be comma-joined legacy strings; each fragment is translated
// independently and unknown fragments are dropped.
func ConvertTaxCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		for _, part := range strings.Split(code, ",") {
			part = strings.TrimSpace(part)
			if wire, ok := wireTaxCodes[part]; ok {
				out = append(out, wire)
			}
		}
	}
	return out
}

// BuildWireItem shapes one normalized line item for the certification
// payload. Purchase invoices never carry taxes or custom taxes, whatever the
// stored or submitted lines say.
func BuildWireItem(item ItemInput, invoiceType types.InvoiceType) WireItem {
	wire := WireItem{
		Reference:       item.Reference,
		Description:     item.Description,
		Quantity:        item.Quantity,
		Amount:          item.Amount.InexactFloat64(),
		Discount:        item.Discount.InexactFloat64(),
		MeasurementUnit: item.MeasurementUnit,
	}
	if wire.MeasurementUnit == "" {
		wire.MeasurementUnit = types.DefaultMeasurementUnit
	}
	if invoiceType == types.InvoiceTypePurchase {
		return wire
	}
	wire.Taxes = ConvertTaxCodes(item.Taxes)
	wire.CustomTaxes = lo.FilterMap(item.CustomTaxes, func(ct CustomTax, _ int) (WireCustomTax, bool) {
		if ct.Name == "" || !ct.Amount.IsPositive() {
			return WireCustomTax{}, false
		}
		return WireCustomTax{Name: ct.Name, Amount: ct.Amount.InexactFloat64()}, true
	})
	return wire
}

// BuildWireItems shapes every line of an invoice.
func BuildWireItems(items []ItemInput, invoiceType types.InvoiceType) []WireItem {
	return lo.Map(items, func(item ItemInput, _ int) WireItem {
		return BuildWireItem(item, invoiceType)
	})
}
