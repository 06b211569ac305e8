package invoice

import (
	"strings"
	"time"

	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/types"
	"github.com/shopspring/decimal"
)

// Item is a line item owned by exactly one invoice, associated through the
// invoice's business uid rather than its numeric id. FNEItemID is the
// authority-assigned line identifier, stamped after certification by matching
// the business reference (it does not exist at creation time).
type Item struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	CompanyUID  string `json:"uid_companie" gorm:"column:uid_companie;index;size:64"`
	InvoiceUID  string `json:"uid_invoice" gorm:"column:uid_invoice;index;size:64"`
	Reference   string `json:"reference" gorm:"column:reference"`
	Description string `json:"description" gorm:"column:description"`

	// Quantity is negative on credit-invoice lines to represent returned units.
	Quantity        int             `json:"quantity" gorm:"column:quantity"`
	Amount          decimal.Decimal `json:"amount" gorm:"column:amount;type:numeric"`
	Discount        decimal.Decimal `json:"discount" gorm:"column:discount;type:numeric"`
	MeasurementUnit string          `json:"measurement_unit" gorm:"column:measurement_unit"`

	// Taxes holds a single internal tax code, or a comma-joined list written
	// by older clients. The fne adapter normalizes both shapes.
	Taxes           string          `json:"taxes" gorm:"column:taxes"`
	CustomTaxName   string          `json:"custom_taxes_name" gorm:"column:custom_taxes_name"`
	CustomTaxAmount decimal.Decimal `json:"custom_taxes_amount" gorm:"column:custom_taxes_amount;type:numeric"`

	FNEItemID *string   `json:"fne_item_id,omitempty" gorm:"column:fne_item_id"`
	CreatedAt time.Time `json:"date_creation" gorm:"column:date_creation;autoCreateTime"`
}

func (Item) TableName() string {
	return "item_invoices"
}

func (it *Item) Validate() error {
	if it.Reference == "" {
		return ierr.NewError("item reference is required").
			WithHint("Référence requise").
			Mark(ierr.ErrValidation)
	}
	if it.Description == "" {
		return ierr.NewError("item description is required").
			WithHint("Description requise").
			Mark(ierr.ErrValidation)
	}
	if it.Amount.IsNegative() {
		return ierr.NewError("item amount must be non negative").
			WithHint("Montant invalide").
			Mark(ierr.ErrValidation)
	}
	if it.Discount.IsNegative() || it.Discount.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("item discount must be between 0 and 100").
			WithHint("La remise doit être un pourcentage entre 0 et 100").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// HasRecognizedVAT reports whether at least the first tax code on the line is
// one of the recognized VAT codes. Sale invoices are rejected before any
// authority call when a line fails this check.
func (it *Item) HasRecognizedVAT() bool {
	code := it.Taxes
	if idx := strings.IndexByte(code, ','); idx >= 0 {
		code = code[:idx]
	}
	return types.IsRecognizedVAT(strings.TrimSpace(code))
}
