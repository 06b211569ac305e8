package service

import (
	"context"

	"github.com/mohessea007/FNE/internal/api/dto"
	"github.com/mohessea007/FNE/internal/domain/invoice"
	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/types"
)

// RefundService creates credit notes against certified invoices. A refund is
// requested in terms of the authority's own line identifiers, taken from the
// certification snapshot, and results in a separate refund invoice born in
// the refunded state.
type RefundService interface {
	// RefundInvoice credits a certified invoice resolved by numeric id.
	RefundInvoice(ctx context.Context, invoiceID int64, req *dto.CreateRefundRequest) (*dto.RefundResponse, error)

	// RefundInvoiceByUID credits a certified invoice resolved by business uid.
	RefundInvoiceByUID(ctx context.Context, uid string, req *dto.CreateRefundRequest) (*dto.RefundResponse, error)
}

type refundService struct {
	ServiceParams
}

func NewRefundService(params ServiceParams) RefundService {
	return &refundService{ServiceParams: params}
}

func (s *refundService) RefundInvoice(ctx context.Context, invoiceID int64, req *dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	original, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.refund(ctx, original, req)
}

func (s *refundService) RefundInvoiceByUID(ctx context.Context, uid string, req *dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	original, err := s.InvoiceRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.refund(ctx, original, req)
}

// refund validates every precondition before the single authority call, then
// persists the outcome transactionally. A failed authority call changes
// nothing but the audit log; the original invoice keeps its status.
func (s *refundService) refund(ctx context.Context, original *invoice.Invoice, req *dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkRefundable(ctx, original); err != nil {
		return nil, err
	}

	company, err := s.TenantRepo.GetByUID(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.ReceivedItemRepo.ListByInvoice(ctx, original.ID)
	if err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		return nil, ierr.NewError("no certified items recorded for invoice").
			WithHint("Aucun article certifié n'est enregistré pour cette facture. Veuillez recertifier la facture avant de créer un avoir.").
			WithReportableDetails(map[string]any{"invoice_id": original.ID}).
			Mark(ierr.ErrInvalidOperation)
	}

	// Residual legacy rows sometimes carry locally generated ids instead of
	// authority UUIDs. One malformed row blocks the whole refund; only a new
	// certification can repair the snapshot.
	for _, row := range snapshot {
		if !row.HasValidID() {
			return nil, ierr.NewError("certification snapshot holds a malformed authority id").
				WithHint("Les articles certifiés de cette facture sont invalides. Veuillez recertifier la facture avant de créer un avoir.").
				WithReportableDetails(map[string]any{
					"invoice_id":  original.ID,
					"fne_item_id": row.FNEItemID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}
	}

	refundItems, matched, err := resolveRefundItems(req.Items, snapshot)
	if err != nil {
		return nil, err
	}

	dataSent, _ := payloadJSON.Marshal(map[string][]fne.RefundItem{"items": refundItems})

	result := s.Gateway.Refund(ctx, *original.FNEInvoiceID, refundItems, company.FNEToken)

	if !result.Success {
		return nil, s.persistRefundRejection(ctx, original, company, dataSent, result)
	}
	return s.persistRefund(ctx, original, company, matched, dataSent, result)
}

// checkRefundable enforces the invoice-level refund preconditions.
func (s *refundService) checkRefundable(ctx context.Context, original *invoice.Invoice) error {
	if original.IsRefund {
		return ierr.NewError("cannot refund a credit invoice").
			WithHint("Impossible de rembourser un avoir").
			Mark(ierr.ErrInvalidOperation)
	}
	if original.Status == types.InvoiceStatusRefunded {
		return ierr.NewError("invoice already refunded").
			WithHint("Cette facture a déjà été remboursée avec succès").
			Mark(ierr.ErrInvalidOperation)
	}
	if !original.IsCertified() {
		return ierr.NewError("only certified invoices can be refunded").
			WithHint("Seules les factures certifiées peuvent être remboursées").
			WithReportableDetails(map[string]any{"status": original.Status}).
			Mark(ierr.ErrInvalidOperation)
	}
	if original.FNEInvoiceID == nil || *original.FNEInvoiceID == "" {
		return ierr.NewError("certified invoice is missing its authority identifier").
			WithHint("L'identifiant FNE de la facture est manquant, le remboursement est impossible").
			Mark(ierr.ErrInvalidOperation)
	}

	// Guards against an earlier refund that succeeded at the authority while
	// the original's status update was lost.
	refunds, err := s.InvoiceRepo.ListRefunds(ctx, original.ID, types.InvoiceStatusRefunded)
	if err != nil {
		return err
	}
	if len(refunds) > 0 {
		return ierr.NewError("invoice already refunded").
			WithHint("Cette facture a déjà été remboursée avec succès").
			WithReportableDetails(map[string]any{"refund_invoice_id": refunds[0].ID}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

// matchedRefundItem pairs a requested line with its snapshot row.
type matchedRefundItem struct {
	snapshot *invoice.ReceivedItem
	quantity int
}

// resolveRefundItems checks every requested line against the certification
// snapshot: the authority id must exist there and the requested quantity
// cannot exceed the certified one.
func resolveRefundItems(requested []dto.RefundItemRequest, snapshot []*invoice.ReceivedItem) ([]fne.RefundItem, []matchedRefundItem, error) {
	byID := make(map[string]*invoice.ReceivedItem, len(snapshot))
	for _, row := range snapshot {
		byID[row.FNEItemID] = row
	}

	wire := make([]fne.RefundItem, 0, len(requested))
	matched := make([]matchedRefundItem, 0, len(requested))
	for _, in := range requested {
		row, ok := byID[in.ID]
		if !ok {
			return nil, nil, ierr.NewError("refund item not found in certification snapshot").
				WithHint("Article introuvable parmi les articles certifiés de cette facture").
				WithReportableDetails(map[string]any{"id": in.ID}).
				Mark(ierr.ErrValidation)
		}
		if in.Quantity > row.Quantity {
			return nil, nil, ierr.NewError("refund quantity exceeds certified quantity").
				WithHintf("La quantité à rembourser (%d) dépasse la quantité certifiée (%d) pour l'article %s",
					in.Quantity, row.Quantity, row.Reference).
				WithReportableDetails(map[string]any{
					"id":                 in.ID,
					"reference":          row.Reference,
					"requested_quantity": in.Quantity,
					"certified_quantity": row.Quantity,
				}).
				Mark(ierr.ErrValidation)
		}
		wire = append(wire, fne.RefundItem{ID: in.ID, Quantity: in.Quantity})
		matched = append(matched, matchedRefundItem{snapshot: row, quantity: in.Quantity})
	}
	return wire, matched, nil
}

// persistRefund commits the success outcome: a credit invoice born refunded
// with negated quantities, the original flipped to refunded, and the audit
// row, as one transaction.
func (s *refundService) persistRefund(
	ctx context.Context,
	original *invoice.Invoice,
	company *tenant.Company,
	matched []matchedRefundItem,
	dataSent []byte,
	result *fne.Result,
) (*dto.RefundResponse, error) {
	normalized := fne.Normalize(result.Data)
	if normalized == nil {
		normalized = &fne.Normalized{}
	}
	token := s.TokenParser.Parse(normalized.Token)

	credit := &invoice.Invoice{
		ClientID:          original.ClientID,
		PointOfSaleID:     original.PointOfSaleID,
		UID:               types.GenerateUID(),
		Type:              original.Type,
		PaymentMethod:     original.PaymentMethod,
		SellerName:        original.SellerName,
		IsRefund:          true,
		OriginalInvoiceID: &original.ID,
		Status:            types.InvoiceStatusRefunded,
	}
	if normalized.Reference != "" {
		credit.FNEReference = &normalized.Reference
	}
	if normalized.InvoiceID != "" {
		credit.FNEInvoiceID = &normalized.InvoiceID
	}
	if token.URL != "" {
		credit.FNEToken = &token.URL
		credit.FNETokenValue = &token.Value
	}

	// Tax fields come from the original's own line items, matched by
	// business reference; the snapshot only stores wire-format codes.
	originalItems, err := s.InvoiceRepo.ListItems(ctx, original.UID)
	if err != nil {
		return nil, err
	}
	originalByRef := make(map[string]*invoice.Item, len(originalItems))
	for _, item := range originalItems {
		originalByRef[item.Reference] = item
	}

	creditItems := make([]*invoice.Item, 0, len(matched))
	for _, m := range matched {
		fneID := m.snapshot.FNEItemID
		creditItem := &invoice.Item{
			Reference:       m.snapshot.Reference,
			Description:     m.snapshot.Description,
			Quantity:        -m.quantity,
			Amount:          m.snapshot.Amount,
			Discount:        m.snapshot.Discount,
			MeasurementUnit: m.snapshot.MeasurementUnit,
			FNEItemID:       &fneID,
		}
		if src, ok := originalByRef[m.snapshot.Reference]; ok {
			creditItem.Taxes = src.Taxes
			creditItem.CustomTaxName = src.CustomTaxName
			creditItem.CustomTaxAmount = src.CustomTaxAmount
		}
		creditItems = append(creditItems, creditItem)
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.CreateWithItems(ctx, credit, creditItems); err != nil {
			return err
		}
		original.Status = types.InvoiceStatusRefunded
		if err := s.InvoiceRepo.Update(ctx, original); err != nil {
			return err
		}
		// The success row belongs to the credit invoice it produced; failed
		// attempts stay attached to the original.
		return s.appendRefundLog(ctx, credit, company, dataSent, result, credit.FNEToken)
	})
	if err != nil {
		s.Logger.Errorw("refund accepted by authority but local commit failed",
			"invoice_id", original.ID,
			"fne_invoice_id", normalized.InvoiceID,
			"error", err)
		return nil, ierr.WithError(err).
			WithHint("L'avoir a été créé par la FNE mais l'enregistrement local a échoué").
			WithReportableDetails(map[string]any{
				"invoice_id":     original.ID,
				"fne_invoice_id": normalized.InvoiceID,
			}).
			Mark(ierr.ErrReconciliation)
	}

	s.Logger.Infow("refund created",
		"invoice_id", original.ID,
		"refund_invoice_id", credit.ID,
		"fne_reference", normalized.Reference)

	return dto.NewRefundResponse(credit, original, authorityResult(result)), nil
}

// persistRefundRejection records the failed attempt in the audit log only.
func (s *refundService) persistRefundRejection(
	ctx context.Context,
	original *invoice.Invoice,
	company *tenant.Company,
	dataSent []byte,
	result *fne.Result,
) error {
	if err := s.appendRefundLog(ctx, original, company, dataSent, result, nil); err != nil {
		return err
	}

	s.Logger.Warnw("refund rejected",
		"invoice_id", original.ID,
		"code", result.Code,
		"message", result.Message)

	return ierr.NewError("refund rejected by authority").
		WithHint(result.Message).
		WithReportableDetails(map[string]any{
			"invoice_id": original.ID,
			"code":       result.Code,
		}).
		Mark(ierr.ErrAuthorityRejected)
}

func (s *refundService) appendRefundLog(
	ctx context.Context,
	inv *invoice.Invoice,
	company *tenant.Company,
	dataSent []byte,
	result *fne.Result,
	tokenReceived *string,
) error {
	return s.LogRepo.Create(ctx, &invoicelog.InvoiceLog{
		CompanyID:     company.ID,
		PointOfSaleID: inv.PointOfSaleID,
		InvoiceID:     inv.ID,
		DataSent:      dataSent,
		DataReceived:  result.Data,
		ResponseCode:  result.Code,
		ResponseMsg:   result.Message,
		UserID:        types.GetUserID(ctx),
		TokenReceived: tokenReceived,
	})
}
