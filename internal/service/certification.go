package service

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/mohessea007/FNE/internal/api/dto"
	"github.com/mohessea007/FNE/internal/domain/invoice"
	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/types"
)

var payloadJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// CertificationService drives the certification lifecycle: submit a stored
// invoice to the authority, persist the outcome, and keep the local line
// items reconciled with the authority's snapshot.
type CertificationService interface {
	// CertifyInvoice submits an existing pending or rejected invoice.
	CertifyInvoice(ctx context.Context, invoiceID int64) (*dto.CertificationResponse, error)

	// CertifyInvoiceByUID resolves the invoice by business uid, for API-key
	// integrations that never see numeric ids.
	CertifyInvoiceByUID(ctx context.Context, uid string) (*dto.CertificationResponse, error)

	// CreateAndCertifyInvoice stores a new invoice and submits it in one
	// call. The invoice is persisted whatever the authority answers; a
	// rejected invoice stays editable for resubmission.
	CreateAndCertifyInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.CertificationResponse, error)

	// RecertifyInvoice rewrites a non certified invoice from the request and
	// submits the new content.
	RecertifyInvoice(ctx context.Context, invoiceID int64, req *dto.CreateInvoiceRequest) (*dto.CertificationResponse, error)
}

type certificationService struct {
	ServiceParams
}

func NewCertificationService(params ServiceParams) CertificationService {
	return &certificationService{ServiceParams: params}
}

func (s *certificationService) CertifyInvoice(ctx context.Context, invoiceID int64) (*dto.CertificationResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.certify(ctx, inv)
}

func (s *certificationService) CertifyInvoiceByUID(ctx context.Context, uid string) (*dto.CertificationResponse, error) {
	inv, err := s.InvoiceRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.certify(ctx, inv)
}

func (s *certificationService) CreateAndCertifyInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.CertificationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv := req.ToInvoice()
	items := req.ToItems()
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	if err := s.InvoiceRepo.CreateWithItems(ctx, inv, items); err != nil {
		return nil, err
	}

	s.Logger.Infow("invoice created",
		"invoice_id", inv.ID,
		"invoice_uid", inv.UID,
		"type", inv.Type)

	return s.certify(ctx, inv)
}

func (s *certificationService) RecertifyInvoice(ctx context.Context, invoiceID int64, req *dto.CreateInvoiceRequest) (*dto.CertificationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.CanCertify(); err != nil {
		return nil, err
	}

	inv.ClientID = req.ClientID
	inv.PointOfSaleID = req.PointOfSaleID
	inv.Type = req.Type
	inv.SellerName = req.SellerName
	inv.DiscountRate = req.DiscountRate
	if req.PaymentMethod != "" {
		inv.PaymentMethod = req.PaymentMethod
	}
	inv.Status = types.InvoiceStatusPending

	items := req.ToItems()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return s.InvoiceRepo.ReplaceItems(ctx, inv.UID, items)
	})
	if err != nil {
		return nil, err
	}

	return s.certify(ctx, inv)
}

// certify is the shared core. Preconditions first, then exactly one authority
// call, then one transactional persistence of the outcome. No authority call
// is made when any precondition fails.
func (s *certificationService) certify(ctx context.Context, inv *invoice.Invoice) (*dto.CertificationResponse, error) {
	if err := inv.CanCertify(); err != nil {
		return nil, err
	}

	company, err := s.TenantRepo.GetByUID(ctx, types.GetTenantID(ctx))
	if err != nil {
		return nil, err
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}

	items, err := s.InvoiceRepo.ListItems(ctx, inv.UID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("invoice has no items").
			WithHint("La facture doit contenir au moins un article").
			Mark(ierr.ErrValidation)
	}

	if inv.Type == types.InvoiceTypeSale {
		for _, item := range items {
			if !item.HasRecognizedVAT() {
				return nil, ierr.NewError("sale item without recognized vat code").
					WithHint("La TVA est obligatoire pour les factures de vente. Veuillez sélectionner un taux de TVA pour chaque article.").
					WithReportableDetails(map[string]any{"reference": item.Reference}).
					Mark(ierr.ErrValidation)
			}
		}
	}

	client, err := s.TenantRepo.GetClient(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	pos, err := s.TenantRepo.GetPointOfSale(ctx, inv.PointOfSaleID)
	if err != nil {
		return nil, err
	}

	wire := buildWireInvoice(inv, items, company, client, pos)
	dataSent, _ := payloadJSON.Marshal(wire)

	result := s.Gateway.Certify(ctx, wire, company.FNEToken)

	if !result.Success {
		return nil, s.persistRejection(ctx, inv, company, dataSent, result)
	}
	return s.persistCertification(ctx, inv, items, company, dataSent, result)
}

// persistCertification commits the success outcome: certification fields,
// line-item reconciliation, authority snapshot, and the audit row, as one
// transaction. Reconciliation problems are logged and swallowed; a commit
// failure after the authority accepted is surfaced as a reconciliation error
// so operators can repair state by hand.
func (s *certificationService) persistCertification(
	ctx context.Context,
	inv *invoice.Invoice,
	items []*invoice.Item,
	company *tenant.Company,
	dataSent []byte,
	result *fne.Result,
) (*dto.CertificationResponse, error) {
	normalized := fne.Normalize(result.Data)
	if normalized == nil {
		normalized = &fne.Normalized{}
	}
	token := s.TokenParser.Parse(normalized.Token)

	inv.Status = types.InvoiceStatusCertified
	if normalized.Reference != "" {
		inv.FNEReference = &normalized.Reference
	}
	if normalized.InvoiceID != "" {
		inv.FNEInvoiceID = &normalized.InvoiceID
	}
	if token.URL != "" {
		inv.FNEToken = &token.URL
		inv.FNETokenValue = &token.Value
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		s.reconcileItems(ctx, inv, items, normalized.Items)
		return s.appendLog(ctx, inv, company, dataSent, result, inv.FNEToken)
	})
	if err != nil {
		s.Logger.Errorw("certification accepted by authority but local commit failed",
			"invoice_id", inv.ID,
			"fne_invoice_id", normalized.InvoiceID,
			"error", err)
		return nil, ierr.WithError(err).
			WithHint("La facture a été certifiée par la FNE mais l'enregistrement local a échoué").
			WithReportableDetails(map[string]any{
				"invoice_id":     inv.ID,
				"fne_invoice_id": normalized.InvoiceID,
			}).
			Mark(ierr.ErrReconciliation)
	}

	s.Logger.Infow("invoice certified",
		"invoice_id", inv.ID,
		"fne_reference", normalized.Reference,
		"fne_invoice_id", normalized.InvoiceID)

	return &dto.CertificationResponse{
		Invoice:   dto.NewInvoiceResponse(inv),
		Authority: authorityResult(result),
	}, nil
}

// persistRejection records the failure outcome and returns the authority's
// message as the caller-visible error. The invoice stays editable.
func (s *certificationService) persistRejection(
	ctx context.Context,
	inv *invoice.Invoice,
	company *tenant.Company,
	dataSent []byte,
	result *fne.Result,
) error {
	inv.Status = types.InvoiceStatusRejected

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return s.appendLog(ctx, inv, company, dataSent, result, nil)
	})
	if err != nil {
		return err
	}

	s.Logger.Warnw("certification rejected",
		"invoice_id", inv.ID,
		"code", result.Code,
		"message", result.Message)

	return ierr.NewError("certification rejected by authority").
		WithHint(result.Message).
		WithReportableDetails(map[string]any{
			"invoice_id": inv.ID,
			"code":       result.Code,
		}).
		Mark(ierr.ErrAuthorityRejected)
}

// reconcileItems stamps authority line ids onto local items by business
// reference and replaces the authority snapshot. Failures here never abort
// the certification commit. Whenever the response carried an item list the
// prior snapshot is replaced wholesale, even when no row survives the UUID
// filter; stale rows from an earlier certification must never vouch for
// refund eligibility.
func (s *certificationService) reconcileItems(ctx context.Context, inv *invoice.Invoice, items []*invoice.Item, received []fne.ReceivedWireItem) {
	if len(received) == 0 {
		return
	}

	byReference := make(map[string]string, len(received))
	for _, it := range received {
		if it.Reference != "" && it.ID != "" {
			byReference[it.Reference] = it.ID
		}
	}
	for _, item := range items {
		fneID, ok := byReference[item.Reference]
		if !ok {
			continue
		}
		if err := s.InvoiceRepo.StampItemFNEID(ctx, item.ID, fneID); err != nil {
			s.Logger.Warnw("failed to stamp authority item id",
				"invoice_id", inv.ID,
				"item_id", item.ID,
				"error", err)
		}
	}

	snapshot := make([]*invoice.ReceivedItem, 0, len(received))
	for _, it := range received {
		row := &invoice.ReceivedItem{
			FNEItemID:       it.ID,
			Quantity:        int(it.Quantity),
			Reference:       it.Reference,
			Description:     it.Description,
			Amount:          it.Amount.Decimal(),
			Discount:        it.Discount.Decimal(),
			MeasurementUnit: it.MeasurementUnit,
			Taxes:           it.Taxes,
			CustomTaxes:     it.CustomTaxes,
		}
		if row.MeasurementUnit == "" {
			row.MeasurementUnit = types.DefaultMeasurementUnit
		}
		if !row.HasValidID() {
			continue
		}
		snapshot = append(snapshot, row)
	}
	if err := s.ReceivedItemRepo.ReplaceForInvoice(ctx, inv.ID, snapshot); err != nil {
		s.Logger.Warnw("failed to replace authority snapshot",
			"invoice_id", inv.ID,
			"error", err)
	}
}

func (s *certificationService) appendLog(
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

func buildWireInvoice(
	inv *invoice.Invoice,
	items []*invoice.Item,
	company *tenant.Company,
	client *tenant.Client,
	pos *tenant.PointOfSale,
) *fne.WireInvoice {
	return &fne.WireInvoice{
		InvoiceType:       inv.Type.String(),
		PaymentMethod:     inv.PaymentMethod,
		Template:          string(client.Type),
		ClientNcc:         client.NCC,
		ClientCompanyName: client.CompanyName,
		ClientPhone:       client.Phone,
		ClientEmail:       client.Email,
		ClientSellerName:  inv.SellerName,
		PointOfSale:       pos.Name,
		Establishment:     company.Name,
		CommercialMessage: company.CommercialMessage,
		Footer:            company.Footer,
		Items:             fne.BuildWireItems(dto.ItemInputs(items), inv.Type),
	}
}

func authorityResult(result *fne.Result) *dto.AuthorityResult {
	return &dto.AuthorityResult{
		Success: result.Success,
		Code:    result.Code,
		Message: result.Message,
	}
}
