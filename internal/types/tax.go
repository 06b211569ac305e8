package types

// Internal composite tax codes carried on line items. The numeric suffix is
// the rate the UI displays; the authority only understands the bare prefix
// (see the fne adapter for the wire translation).
const (
	TaxCodeTVA18 = "TVA18" // standard VAT 18%
	TaxCodeTVAB9 = "TVAB9" // reduced VAT 9%
	TaxCodeTVAC0 = "TVAC0" // exempt 0%

	// Legacy bare codes still present on older invoices.
	TaxCodeTVA  = "TVA"
	TaxCodeTVAB = "TVAB"
	TaxCodeTVAC = "TVAC"
)

// IsRecognizedVAT reports whether the code is one of the VAT codes a sale
// invoice line item must carry before certification is attempted.
func IsRecognizedVAT(code string) bool {
	switch code {
	case TaxCodeTVA18, TaxCodeTVAB9, TaxCodeTVAC0,
		TaxCodeTVA, TaxCodeTVAB, TaxCodeTVAC:
		return true
	}
	return false
}
