package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/mohessea007/FNE/internal/domain/invoicelog"
)

// InMemoryInvoiceLogStore implements invoicelog.Repository. Append only, like
// the real thing.
type InMemoryInvoiceLogStore struct {
	rows   *InMemoryStore[*invoicelog.InvoiceLog]
	nextID atomic.Int64
}

func NewInMemoryInvoiceLogStore() *InMemoryInvoiceLogStore {
	return &InMemoryInvoiceLogStore{rows: NewInMemoryStore[*invoicelog.InvoiceLog]()}
}

func logKey(id int64) string {
	return fmt.Sprintf("log-%d", id)
}

func (s *InMemoryInvoiceLogStore) Create(_ context.Context, entry *invoicelog.InvoiceLog) error {
	entry.ID = s.nextID.Add(1)
	cp := *entry
	s.rows.Set(logKey(entry.ID), &cp)
	return nil
}

func (s *InMemoryInvoiceLogStore) ListByInvoice(_ context.Context, invoiceID int64) ([]*invoicelog.InvoiceLog, error) {
	rows := s.rows.List(func(row *invoicelog.InvoiceLog) bool {
		return row.InvoiceID == invoiceID
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows, nil
}

func (s *InMemoryInvoiceLogStore) CountByInvoice(_ context.Context, invoiceID int64) (int, error) {
	return len(s.rows.List(func(row *invoicelog.InvoiceLog) bool {
		return row.InvoiceID == invoiceID
	})), nil
}

func (s *InMemoryInvoiceLogStore) Clear() {
	s.rows.Clear()
}

var _ invoicelog.Repository = (*InMemoryInvoiceLogStore)(nil)
