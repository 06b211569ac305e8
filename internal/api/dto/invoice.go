package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mohessea007/FNE/internal/domain/invoice"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/types"
)

// CreateInvoiceRequest is the inbound payload for creating an invoice and
// submitting it for certification in one call.
type CreateInvoiceRequest struct {
	ClientID      int64                      `json:"clientid" binding:"required"`
	PointOfSaleID int64                      `json:"pointdeventeid" binding:"required"`
	Type          types.InvoiceType          `json:"type_invoice" binding:"required"`
	PaymentMethod string                     `json:"payment_method"`
	SellerName    string                     `json:"client_seller_name"`
	DiscountRate  decimal.Decimal            `json:"remise_taux"`
	Items         []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateInvoiceItemRequest accepts both request generations of line taxes:
// Taxes as a string or array, and the legacy single custom-tax pair next to
// the CustomTaxes list. Shapes are normalized here, once.
type CreateInvoiceItemRequest struct {
	Reference       string             `json:"reference" binding:"required"`
	Description     string             `json:"description" binding:"required"`
	Quantity        int                `json:"quantity" binding:"required,min=1"`
	Amount          decimal.Decimal    `json:"amount" binding:"required"`
	Discount        decimal.Decimal    `json:"discount"`
	MeasurementUnit string             `json:"measurement_unit"`
	Taxes           fne.TaxSpec        `json:"taxes"`
	CustomTaxes     []CustomTaxRequest `json:"custom_taxes"`
	CustomTaxName   string             `json:"custom_taxes_name"`
	CustomTaxAmount decimal.Decimal    `json:"custom_taxes_amount"`
}

type CustomTaxRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if len(r.Items) == 0 {
		return ierr.NewError("invoice has no items").
			WithHint("La facture doit contenir au moins un article").
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.Items {
		if item.Quantity < 1 {
			return ierr.NewError("item quantity must be at least 1").
				WithHint("La quantité doit être supérieure à zéro").
				WithReportableDetails(map[string]any{"reference": item.Reference}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToInvoice builds the domain invoice. The uid is generated here; the tenant
// is stamped by the repository from the context.
func (r *CreateInvoiceRequest) ToInvoice() *invoice.Invoice {
	paymentMethod := r.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = types.DefaultPaymentMethod
	}
	return &invoice.Invoice{
		ClientID:      r.ClientID,
		PointOfSaleID: r.PointOfSaleID,
		UID:           types.GenerateUID(),
		Type:          r.Type,
		PaymentMethod: paymentMethod,
		SellerName:    r.SellerName,
		DiscountRate:  r.DiscountRate,
		Status:        types.InvoiceStatusPending,
	}
}

// ToItems builds the persisted line items. Multi-code tax arrays are stored
// comma-joined; the single legacy custom-tax pair and the custom-tax list are
// collapsed to the pair columns, first entry wins.
func (r *CreateInvoiceRequest) ToItems() []*invoice.Item {
	items := make([]*invoice.Item, 0, len(r.Items))
	for _, in := range r.Items {
		unit := in.MeasurementUnit
		if unit == "" {
			unit = types.DefaultMeasurementUnit
		}
		item := &invoice.Item{
			Reference:       in.Reference,
			Description:     in.Description,
			Quantity:        in.Quantity,
			Amount:          in.Amount,
			Discount:        in.Discount,
			MeasurementUnit: unit,
			Taxes:           strings.Join(in.Taxes, ","),
			CustomTaxName:   in.CustomTaxName,
			CustomTaxAmount: in.CustomTaxAmount,
		}
		if item.CustomTaxName == "" && len(in.CustomTaxes) > 0 {
			item.CustomTaxName = in.CustomTaxes[0].Name
			item.CustomTaxAmount = in.CustomTaxes[0].Amount
		}
		items = append(items, item)
	}
	return items
}

// ItemInputs converts persisted line items to the adapter's neutral shape.
func ItemInputs(items []*invoice.Item) []fne.ItemInput {
	inputs := make([]fne.ItemInput, 0, len(items))
	for _, item := range items {
		input := fne.ItemInput{
			Reference:       item.Reference,
			Description:     item.Description,
			Quantity:        item.Quantity,
			Amount:          item.Amount,
			Discount:        item.Discount,
			MeasurementUnit: item.MeasurementUnit,
		}
		if item.Taxes != "" {
			input.Taxes = strings.Split(item.Taxes, ",")
		}
		if item.CustomTaxName != "" {
			input.CustomTaxes = []fne.CustomTax{{
				Name:   item.CustomTaxName,
				Amount: item.CustomTaxAmount,
			}}
		}
		inputs = append(inputs, input)
	}
	return inputs
}

// AuthorityResult is the caller-visible outcome of the authority call.
type AuthorityResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InvoiceResponse is the outbound representation of an invoice.
type InvoiceResponse struct {
	*invoice.Invoice
}

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv}
}

// CertificationResponse is returned by every certification entrypoint.
type CertificationResponse struct {
	Invoice   *InvoiceResponse `json:"invoice"`
	Authority *AuthorityResult `json:"authority"`
}

// ListInvoicesResponse is the paginated listing envelope.
type ListInvoicesResponse struct {
	Items  []*InvoiceResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
