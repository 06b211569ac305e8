package fne

import (
	"encoding/json"
)

// ReceivedWireItem is one line item as echoed back by the authority after
// certification. Numeric fields tolerate both number and string encodings.
type ReceivedWireItem struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	Quantity        Number          `json:"quantity"`
	Amount          Number          `json:"amount"`
	Discount        Number          `json:"discount"`
	MeasurementUnit string          `json:"measurementUnit"`
	Taxes           json.RawMessage `json:"taxes"`
	CustomTaxes     json.RawMessage `json:"customTaxes"`
}

// Normalized is the flattened view of a successful certification response.
// The authority has shipped two envelope layouts over time, with the
// interesting fields either at the top level of data or nested one level
// under data.invoice; this resolves both to a single shape.
type Normalized struct {
	Reference string
	InvoiceID string
	Token     string
	Items     []ReceivedWireItem
}

type responseEnvelope struct {
	ID        string             `json:"id"`
	Reference string             `json:"reference"`
	Token     string             `json:"token"`
	Items     []ReceivedWireItem `json:"items"`
	Invoice   *responseEnvelope  `json:"invoice"`
}

// Normalize flattens a certification response body. A nil result means the
// body was absent or not parseable as the expected envelope.
func Normalize(data json.RawMessage) *Normalized {
	if len(data) == 0 {
		return nil
	}
	var env responseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}

	out := &Normalized{
		Reference: env.Reference,
		InvoiceID: env.ID,
		Token:     env.Token,
		Items:     env.Items,
	}
	if env.Invoice != nil {
		if out.Reference == "" {
			out.Reference = env.Invoice.Reference
		}
		if out.InvoiceID == "" {
			out.InvoiceID = env.Invoice.ID
		}
		if out.Token == "" {
			out.Token = env.Invoice.Token
		}
		if len(out.Items) == 0 {
			out.Items = env.Invoice.Items
		}
	}
	return out
}
