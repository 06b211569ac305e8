package service

import (
	"context"

	"github.com/mohessea007/FNE/internal/api/dto"
	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	"github.com/mohessea007/FNE/internal/types"
)

// InvoiceService is the read side: invoice lookups, listings, and the audit
// trail of authority interactions.
type InvoiceService interface {
	GetInvoice(ctx context.Context, invoiceID int64) (*dto.InvoiceResponse, error)
	GetInvoiceByUID(ctx context.Context, uid string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	ListInvoiceLogs(ctx context.Context, invoiceID int64) ([]*invoicelog.InvoiceLog, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID int64) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.InvoiceRepo.ListItems(ctx, inv.UID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoiceByUID(ctx context.Context, uid string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	items, err := s.InvoiceRepo.ListItems(ctx, inv.UID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.NewInvoiceResponse(inv))
	}
	return &dto.ListInvoicesResponse{
		Items:  items,
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}

func (s *invoiceService) ListInvoiceLogs(ctx context.Context, invoiceID int64) ([]*invoicelog.InvoiceLog, error) {
	// Resolving the invoice first keeps the audit trail tenant scoped.
	if _, err := s.InvoiceRepo.Get(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.LogRepo.ListByInvoice(ctx, invoiceID)
}
