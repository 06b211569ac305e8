package dto

import (
	"github.com/mohessea007/FNE/internal/domain/invoice"
	ierr "github.com/mohessea007/FNE/internal/errors"
)

// CreateRefundRequest asks for a credit note against a certified invoice.
// Item ids are the authority's line identifiers from the certification
// snapshot, not local row ids.
type CreateRefundRequest struct {
	Items []RefundItemRequest `json:"items" binding:"required,min=1,dive"`
}

type RefundItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

func (r *CreateRefundRequest) Validate() error {
	if len(r.Items) == 0 {
		return ierr.NewError("refund has no items").
			WithHint("L'avoir doit contenir au moins un article").
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.Items {
		if item.ID == "" {
			return ierr.NewError("refund item id is required").
				WithHint("L'identifiant de l'article est requis").
				Mark(ierr.ErrValidation)
		}
		if item.Quantity < 1 {
			return ierr.NewError("refund quantity must be at least 1").
				WithHint("La quantité à rembourser doit être supérieure à zéro").
				WithReportableDetails(map[string]any{"id": item.ID}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// RefundResponse is returned on a successful credit note.
type RefundResponse struct {
	Refund          *InvoiceResponse `json:"refund"`
	OriginalInvoice *InvoiceResponse `json:"original_invoice"`
	Authority       *AuthorityResult `json:"authority"`
}

func NewRefundResponse(credit, original *invoice.Invoice, authority *AuthorityResult) *RefundResponse {
	return &RefundResponse{
		Refund:          NewInvoiceResponse(credit),
		OriginalInvoice: NewInvoiceResponse(original),
		Authority:       authority,
	}
}
