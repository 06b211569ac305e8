package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/mohessea007/FNE/internal/domain/invoice"
)

// InMemoryReceivedItemStore implements invoice.ReceivedItemRepository.
type InMemoryReceivedItemStore struct {
	rows   *InMemoryStore[*invoice.ReceivedItem]
	nextID atomic.Int64
}

func NewInMemoryReceivedItemStore() *InMemoryReceivedItemStore {
	return &InMemoryReceivedItemStore{rows: NewInMemoryStore[*invoice.ReceivedItem]()}
}

func receivedKey(id int64) string {
	return fmt.Sprintf("received-%d", id)
}

func (s *InMemoryReceivedItemStore) ReplaceForInvoice(_ context.Context, invoiceID int64, items []*invoice.ReceivedItem) error {
	for _, existing := range s.rows.List(func(row *invoice.ReceivedItem) bool {
		return row.InvoiceID == invoiceID
	}) {
		s.rows.Delete(receivedKey(existing.ID))
	}
	for _, item := range items {
		item.ID = s.nextID.Add(1)
		item.InvoiceID = invoiceID
		cp := *item
		s.rows.Set(receivedKey(item.ID), &cp)
	}
	return nil
}

func (s *InMemoryReceivedItemStore) ListByInvoice(_ context.Context, invoiceID int64) ([]*invoice.ReceivedItem, error) {
	rows := s.rows.List(func(row *invoice.ReceivedItem) bool {
		return row.InvoiceID == invoiceID
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (s *InMemoryReceivedItemStore) Clear() {
	s.rows.Clear()
}

var _ invoice.ReceivedItemRepository = (*InMemoryReceivedItemStore)(nil)
