package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/mohessea007/FNE/internal/domain/invoice"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository for tests.
type InMemoryInvoiceStore struct {
	invoices   *InMemoryStore[*invoice.Invoice]
	items      *InMemoryStore[*invoice.Item]
	nextInvID  atomic.Int64
	nextItemID atomic.Int64
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		invoices: NewInMemoryStore[*invoice.Invoice](),
		items:    NewInMemoryStore[*invoice.Item](),
	}
}

func invoiceKey(id int64) string {
	return fmt.Sprintf("inv-%d", id)
}

func itemKey(id int64) string {
	return fmt.Sprintf("item-%d", id)
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	inv.ID = s.nextInvID.Add(1)
	inv.CompanyUID = types.GetTenantID(ctx)
	cp := *inv
	s.invoices.Set(invoiceKey(inv.ID), &cp)
	return nil
}

func (s *InMemoryInvoiceStore) CreateWithItems(ctx context.Context, inv *invoice.Invoice, items []*invoice.Item) error {
	if err := s.Create(ctx, inv); err != nil {
		return err
	}
	for _, item := range items {
		item.ID = s.nextItemID.Add(1)
		item.CompanyUID = inv.CompanyUID
		item.InvoiceUID = inv.UID
		cp := *item
		s.items.Set(itemKey(item.ID), &cp)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	inv, ok := s.invoices.Get(invoiceKey(id))
	if !ok || inv.CompanyUID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("invoice not found").
			WithHint("Facture introuvable").
			Mark(ierr.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

func (s *InMemoryInvoiceStore) GetByUID(ctx context.Context, uid string) (*invoice.Invoice, error) {
	tenantID := types.GetTenantID(ctx)
	matches := s.invoices.List(func(inv *invoice.Invoice) bool {
		return inv.UID == uid && inv.CompanyUID == tenantID
	})
	if len(matches) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHint("Facture introuvable").
			Mark(ierr.ErrNotFound)
	}
	cp := *matches[0]
	return &cp, nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	existing, ok := s.invoices.Get(invoiceKey(inv.ID))
	if !ok || existing.CompanyUID != types.GetTenantID(ctx) {
		return ierr.NewError("invoice not found").
			WithHint("Facture introuvable").
			Mark(ierr.ErrNotFound)
	}
	cp := *inv
	cp.CompanyUID = existing.CompanyUID
	s.invoices.Set(invoiceKey(inv.ID), &cp)
	return nil
}

func (s *InMemoryInvoiceStore) ListItems(ctx context.Context, invoiceUID string) ([]*invoice.Item, error) {
	tenantID := types.GetTenantID(ctx)
	items := s.items.List(func(item *invoice.Item) bool {
		return item.InvoiceUID == invoiceUID && item.CompanyUID == tenantID
	})
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *InMemoryInvoiceStore) ReplaceItems(ctx context.Context, invoiceUID string, items []*invoice.Item) error {
	tenantID := types.GetTenantID(ctx)
	for _, existing := range s.items.List(func(item *invoice.Item) bool {
		return item.InvoiceUID == invoiceUID && item.CompanyUID == tenantID
	}) {
		s.items.Delete(itemKey(existing.ID))
	}
	for _, item := range items {
		item.ID = s.nextItemID.Add(1)
		item.CompanyUID = tenantID
		item.InvoiceUID = invoiceUID
		cp := *item
		s.items.Set(itemKey(item.ID), &cp)
	}
	return nil
}

func (s *InMemoryInvoiceStore) StampItemFNEID(ctx context.Context, itemID int64, fneItemID string) error {
	item, ok := s.items.Get(itemKey(itemID))
	if !ok || item.CompanyUID != types.GetTenantID(ctx) {
		return ierr.NewError("item not found").Mark(ierr.ErrNotFound)
	}
	cp := *item
	cp.FNEItemID = &fneItemID
	s.items.Set(itemKey(itemID), &cp)
	return nil
}

func (s *InMemoryInvoiceStore) ListRefunds(ctx context.Context, originalInvoiceID int64, status types.InvoiceStatus) ([]*invoice.Invoice, error) {
	tenantID := types.GetTenantID(ctx)
	return s.invoices.List(func(inv *invoice.Invoice) bool {
		return inv.IsRefund &&
			inv.CompanyUID == tenantID &&
			inv.OriginalInvoiceID != nil && *inv.OriginalInvoiceID == originalInvoiceID &&
			inv.Status == status
	}), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	matches := s.filtered(ctx, filter)
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID > matches[j].ID })

	offset := filter.GetOffset()
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit := filter.GetLimit(); len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return len(s.filtered(ctx, filter)), nil
}

func (s *InMemoryInvoiceStore) filtered(ctx context.Context, filter *types.InvoiceFilter) []*invoice.Invoice {
	tenantID := types.GetTenantID(ctx)
	return s.invoices.List(func(inv *invoice.Invoice) bool {
		if inv.CompanyUID != tenantID {
			return false
		}
		if filter == nil {
			return true
		}
		if filter.Status != nil && inv.Status != *filter.Status {
			return false
		}
		if filter.Type != nil && inv.Type != *filter.Type {
			return false
		}
		if filter.IsRefund != nil && inv.IsRefund != *filter.IsRefund {
			return false
		}
		if filter.Search != "" {
			ref := ""
			if inv.FNEReference != nil {
				ref = *inv.FNEReference
			}
			if !strings.Contains(inv.UID, filter.Search) && !strings.Contains(ref, filter.Search) {
				return false
			}
		}
		return true
	})
}

func (s *InMemoryInvoiceStore) Clear() {
	s.invoices.Clear()
	s.items.Clear()
}

var _ invoice.Repository = (*InMemoryInvoiceStore)(nil)
