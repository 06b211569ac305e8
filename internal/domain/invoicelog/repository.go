package invoicelog

import "context"

// Repository is append-only: logs are never updated or deleted.
type Repository interface {
	// Create appends one audit row
	Create(ctx context.Context, log *InvoiceLog) error

	// ListByInvoice returns the audit trail for an invoice, newest first
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*InvoiceLog, error)

	// CountByInvoice returns the number of audit rows for an invoice
	CountByInvoice(ctx context.Context, invoiceID int64) (int, error)
}
