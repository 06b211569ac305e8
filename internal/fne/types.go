package fne

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// WireInvoice is the payload shape the authority's certification endpoint
// expects. Field names follow the authority schema, not local conventions.
type WireInvoice struct {
	InvoiceType       string     `json:"invoiceType"`
	PaymentMethod     string     `json:"paymentMethod"`
	Template          string     `json:"template"`
	ClientNcc         string     `json:"clientNcc"`
	ClientCompanyName string     `json:"clientCompanyName,omitempty"`
	ClientPhone       string     `json:"clientPhone,omitempty"`
	ClientEmail       string     `json:"clientEmail,omitempty"`
	ClientSellerName  string     `json:"clientSellerName"`
	PointOfSale       string     `json:"pointOfSale"`
	Establishment     string     `json:"establishment"`
	CommercialMessage string     `json:"commercialMessage,omitempty"`
	Footer            string     `json:"footer,omitempty"`
	Items             []WireItem `json:"items"`
}

// WireItem is one line of the certification payload. Taxes and CustomTaxes
// are omitted entirely on purchase invoices (the authority schema forbids tax
// data on purchase records).
type WireItem struct {
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	Amount          float64         `json:"amount"`
	Discount        float64         `json:"discount"`
	MeasurementUnit string          `json:"measurementUnit"`
	Taxes           []string        `json:"taxes,omitempty"`
	CustomTaxes     []WireCustomTax `json:"customTaxes,omitempty"`
}

type WireCustomTax struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// RefundItem is one line of the refund payload: the authority's line UUID and
// the number of units to credit back.
type RefundItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Result is the uniform outcome of every gateway call. Business-level
// failures (authority 4xx/5xx) and transport failures are both expressed
// here; the gateway never returns a Go error for them.
type Result struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// TaxSpec accepts the two historical request encodings for line taxes: a
// single code string (current clients) or an array of codes (legacy clients).
// It is normalized once at the ingestion boundary; nothing deeper in the call
// stack branches on shape.
type TaxSpec []string

func (t *TaxSpec) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*t = nil
		return nil
	}
	if data[0] == '[' {
		var codes []string
		if err := json.Unmarshal(data, &codes); err != nil {
			return err
		}
		*t = codes
		return nil
	}
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	if code == "" {
		*t = nil
		return nil
	}
	*t = []string{code}
	return nil
}

// CustomTax is the normalized custom-tax pair used by the adapter.
type CustomTax struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ItemInput is the adapter's internal-side item representation, built either
// from a persisted line item or from an inbound request after tax-shape
// normalization.
type ItemInput struct {
	Reference       string
	Description     string
	Quantity        int
	Amount          decimal.Decimal
	Discount        decimal.Decimal
	MeasurementUnit string
	Taxes           []string
	CustomTaxes     []CustomTax
}

// Number tolerates the authority returning numeric fields either as JSON
// numbers or as quoted strings; anything non-coercible decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

func (n Number) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(n))
}
