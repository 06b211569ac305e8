package fne_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/types"
)

func TestConvertTaxCodes(t *testing.T) {
	t.Run("current codes are mapped to authority families", func(t *testing.T) {
		got := fne.ConvertTaxCodes([]string{"TVA18", "TVAB9", "TVAC0"})
		assert.Equal(t, []string{"TVA", "TVAB", "TVAC"}, got)
	})

	t.Run("legacy codes pass through unchanged", func(t *testing.T) {
		got := fne.ConvertTaxCodes([]string{"TVA", "TVAB", "TVAC", "TVAD", "TVAE"})
		assert.Equal(t, []string{"TVA", "TVAB", "TVAC", "TVAD", "TVAE"}, got)
	})

	t.Run("comma joined legacy entries are split", func(t *testing.T) {
		got := fne.ConvertTaxCodes([]string{"TVA18, TVAB"})
		assert.Equal(t, []string{"TVA", "TVAB"}, got)
	})

	t.Run("unknown codes are dropped", func(t *testing.T) {
		got := fne.ConvertTaxCodes([]string{"EXO", "TVA18", "garbage"})
		assert.Equal(t, []string{"TVA"}, got)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, fne.ConvertTaxCodes(nil))
	})
}

func TestBuildWireItem(t *testing.T) {
	input := fne.ItemInput{
		Reference:       "REF-001",
		Description:     "Sac de riz 25kg",
		Quantity:        3,
		Amount:          decimal.NewFromInt(12500),
		Discount:        decimal.NewFromInt(5),
		MeasurementUnit: "sac",
		Taxes:           []string{"TVA18"},
		CustomTaxes: []fne.CustomTax{
			{Name: "Taxe communale", Amount: decimal.NewFromInt(200)},
			{Name: "", Amount: decimal.NewFromInt(999)},
		},
	}

	t.Run("sale item carries converted taxes and named custom taxes", func(t *testing.T) {
		wire := fne.BuildWireItem(input, types.InvoiceTypeSale)

		assert.Equal(t, "REF-001", wire.Reference)
		assert.Equal(t, 3, wire.Quantity)
		assert.Equal(t, 12500.0, wire.Amount)
		assert.Equal(t, "sac", wire.MeasurementUnit)
		assert.Equal(t, []string{"TVA"}, wire.Taxes)
		require.Len(t, wire.CustomTaxes, 1)
		assert.Equal(t, "Taxe communale", wire.CustomTaxes[0].Name)
		assert.Equal(t, 200.0, wire.CustomTaxes[0].Amount)
	})

	t.Run("custom taxes without a positive amount are dropped", func(t *testing.T) {
		in := input
		in.CustomTaxes = []fne.CustomTax{
			{Name: "Taxe communale", Amount: decimal.NewFromInt(200)},
			{Name: "Taxe zéro", Amount: decimal.Zero},
			{Name: "Taxe négative", Amount: decimal.NewFromInt(-50)},
		}
		wire := fne.BuildWireItem(in, types.InvoiceTypeSale)

		require.Len(t, wire.CustomTaxes, 1)
		assert.Equal(t, "Taxe communale", wire.CustomTaxes[0].Name)
	})

	t.Run("purchase item never carries tax data", func(t *testing.T) {
		wire := fne.BuildWireItem(input, types.InvoiceTypePurchase)

		assert.Nil(t, wire.Taxes)
		assert.Nil(t, wire.CustomTaxes)
	})

	t.Run("missing measurement unit falls back to default", func(t *testing.T) {
		in := input
		in.MeasurementUnit = ""
		wire := fne.BuildWireItem(in, types.InvoiceTypeSale)
		assert.Equal(t, types.DefaultMeasurementUnit, wire.MeasurementUnit)
	})
}

func TestTaxSpecUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want fne.TaxSpec
	}{
		{"single string", `"TVA18"`, fne.TaxSpec{"TVA18"}},
		{"array", `["TVA18","TVAB9"]`, fne.TaxSpec{"TVA18", "TVAB9"}},
		{"empty string", `""`, nil},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec fne.TaxSpec
			require.NoError(t, spec.UnmarshalJSON([]byte(tt.in)))
			assert.Equal(t, tt.want, spec)
		})
	}
}
