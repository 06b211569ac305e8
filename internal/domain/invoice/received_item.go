package invoice

import (
	"time"

	"github.com/mohessea007/FNE/internal/types"
	"github.com/shopspring/decimal"
)

// ReceivedItem is the per-invoice snapshot of what the authority confirmed it
// certified. It is replaced wholesale after every successful certification and
// is the only legitimate source of refundable identifiers and quantities: the
// authority, not the local system, decides what can be credited back.
type ReceivedItem struct {
	ID        int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	InvoiceID int64 `json:"invoice_id" gorm:"column:invoice_id;index"`

	// FNEItemID is the authority-assigned line UUID sent back on refund calls.
	FNEItemID       string          `json:"fne_item_id" gorm:"column:fne_item_id"`
	Quantity        int             `json:"quantity" gorm:"column:quantity"`
	Reference       string          `json:"reference" gorm:"column:reference"`
	Description     string          `json:"description" gorm:"column:description"`
	Amount          decimal.Decimal `json:"amount" gorm:"column:amount;type:numeric"`
	Discount        decimal.Decimal `json:"discount" gorm:"column:discount;type:numeric"`
	MeasurementUnit string          `json:"measurement_unit" gorm:"column:measurement_unit"`

	// Raw tax payloads exactly as returned by the authority.
	Taxes       []byte `json:"taxes,omitempty" gorm:"column:taxes;type:jsonb"`
	CustomTaxes []byte `json:"custom_taxes,omitempty" gorm:"column:custom_taxes;type:jsonb"`

	CreatedAt time.Time `json:"date_creation" gorm:"column:date_creation;autoCreateTime"`
}

func (ReceivedItem) TableName() string {
	return "items_invoices_receved"
}

// HasValidID reports whether the snapshot row carries a well-formed authority
// UUID. Rows failing this check block refunds on the whole invoice.
func (r *ReceivedItem) HasValidID() bool {
	return types.IsAuthorityUUID(r.FNEItemID)
}
