package invoice

import (
	"time"

	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is the central entity: a locally entered commercial invoice and the
// certification state the authority assigned to it. A refund invoice (credit
// note) is the same entity with IsRefund set and OriginalInvoiceID pointing at
// the certified invoice being credited.
type Invoice struct {
	ID            int64             `json:"id" gorm:"primaryKey;autoIncrement"`
	CompanyUID    string            `json:"uid_companie" gorm:"column:uid_companie;index;size:64"`
	ClientID      int64             `json:"clientid" gorm:"column:clientid"`
	PointOfSaleID int64             `json:"pointdeventeid" gorm:"column:pointdeventeid"`
	UID           string            `json:"uid_invoice" gorm:"column:uid_invoice;uniqueIndex;size:64"`
	Type          types.InvoiceType `json:"type_invoice" gorm:"column:type_invoice"`
	PaymentMethod string            `json:"payment_method" gorm:"column:payment_method"`
	SellerName    string            `json:"client_seller_name" gorm:"column:client_seller_name"`
	DiscountRate  decimal.Decimal   `json:"remise_taux" gorm:"column:remise_taux;type:numeric"`
	IsRefund      bool              `json:"is_refund" gorm:"column:is_refund"`

	// OriginalInvoiceID is set only on refund invoices and points at the
	// certified invoice being credited.
	OriginalInvoiceID *int64 `json:"original_invoice_id,omitempty" gorm:"column:original_invoice_id;index"`

	// Authority-assigned certification fields. FNEInvoiceID is the opaque
	// UUID required to request a refund; it is never generated locally.
	FNEReference  *string `json:"fne_reference,omitempty" gorm:"column:fne_reference"`
	FNEInvoiceID  *string `json:"fne_invoice_id,omitempty" gorm:"column:fne_invoice_id"`
	FNEToken      *string `json:"fne_token,omitempty" gorm:"column:fne_token"`
	FNETokenValue *string `json:"fne_token_value,omitempty" gorm:"column:fne_token_value"`

	Status    types.InvoiceStatus `json:"status" gorm:"column:status;index"`
	CreatedAt time.Time           `json:"date_creation" gorm:"column:date_creation;autoCreateTime"`
	UpdatedAt time.Time           `json:"date_modification" gorm:"column:date_modification;autoUpdateTime"`

	Items []*Item `json:"items,omitempty" gorm:"-"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) Validate() error {
	if err := i.Type.Validate(); err != nil {
		return err
	}
	if i.DiscountRate.IsNegative() || i.DiscountRate.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("invalid discount rate").
			WithHint("La remise doit être un pourcentage entre 0 et 100").
			Mark(ierr.ErrValidation)
	}
	if i.IsRefund && i.OriginalInvoiceID == nil {
		return ierr.NewError("refund invoice without original").
			WithHint("Un avoir doit référencer la facture d'origine").
			Mark(ierr.ErrValidation)
	}
	if !i.IsRefund && i.OriginalInvoiceID != nil {
		return ierr.NewError("original_invoice_id set on a non refund invoice").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsCertified reports whether the invoice holds an authority certification.
func (i *Invoice) IsCertified() bool {
	return i.Status == types.InvoiceStatusCertified
}

// CanCertify checks the certification preconditions that depend only on the
// invoice row itself. Each failure is a distinct user-facing error and no
// authority call may be made when any of them fails.
func (i *Invoice) CanCertify() error {
	if i.Status == types.InvoiceStatusCertified {
		return ierr.NewError("invoice already certified").
			WithHint("Facture déjà certifiée").
			Mark(ierr.ErrInvalidOperation)
	}
	if i.IsRefund {
		return ierr.NewError("refund invoices cannot be certified").
			WithHint("Les avoirs ne peuvent pas être certifiés manuellement").
			Mark(ierr.ErrInvalidOperation)
	}
	return i.Type.Validate()
}
