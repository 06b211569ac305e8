package types

import (
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/samber/lo"
)

// InvoiceType mirrors the authority's invoiceType vocabulary. Only sale and
// purchase records can be submitted for certification.
type InvoiceType string

const (
	InvoiceTypeSale     InvoiceType = "sale"
	InvoiceTypePurchase InvoiceType = "purchase"
)

func (t InvoiceType) String() string {
	return string(t)
}

func (t InvoiceType) Validate() error {
	allowed := []InvoiceType{
		InvoiceTypeSale,
		InvoiceTypePurchase,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Type de facture invalide. Le type doit être \"sale\" ou \"purchase\".").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceStatus tracks the certification lifecycle of an invoice.
//
//	pending  → certified  (authority accepted)
//	pending  → rejected   (authority refused; invoice stays editable)
//	rejected → pending    (edit + resubmit)
//	certified → refunded  (exactly one successful credit note)
//
// Refund invoices are born refunded; they never transition.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusCertified InvoiceStatus = "certified"
	InvoiceStatusRejected  InvoiceStatus = "rejected"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusPending,
		InvoiceStatusCertified,
		InvoiceStatusRejected,
		InvoiceStatusRefunded,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Statut de facture invalide").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

const (
	// DefaultPaymentMethod is applied when a request omits the payment method.
	DefaultPaymentMethod = "cash"

	// DefaultMeasurementUnit is applied to line items and authority snapshots
	// that carry no measurement unit.
	DefaultMeasurementUnit = "pcs"
)

// InvoiceFilter is the filter contract for invoice listing.
type InvoiceFilter struct {
	Status   *InvoiceStatus `form:"status" json:"status,omitempty"`
	Type     *InvoiceType   `form:"type_invoice" json:"type_invoice,omitempty"`
	IsRefund *bool          `form:"is_refund" json:"is_refund,omitempty"`
	Search   string         `form:"search" json:"search,omitempty"`
	Limit    *int           `form:"limit" json:"limit,omitempty"`
	Offset   *int           `form:"offset" json:"offset,omitempty"`
}

const defaultFilterLimit = 50

func (f *InvoiceFilter) GetLimit() int {
	if f == nil || f.Limit == nil || *f.Limit <= 0 {
		return defaultFilterLimit
	}
	return *f.Limit
}

func (f *InvoiceFilter) GetOffset() int {
	if f == nil || f.Offset == nil || *f.Offset < 0 {
		return 0
	}
	return *f.Offset
}

func (f *InvoiceFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.Type != nil {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	return nil
}
