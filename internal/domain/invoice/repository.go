package invoice

import (
	"context"

	"github.com/mohessea007/FNE/internal/types"
)

// Repository defines the interface for invoice persistence operations. Every
// operation is scoped to the tenant carried in the context; a numeric id alone
// never resolves an invoice.
type Repository interface {
	// Create creates a new invoice row
	Create(ctx context.Context, inv *Invoice) error

	// CreateWithItems creates an invoice and its line items as one unit
	CreateWithItems(ctx context.Context, inv *Invoice, items []*Item) error

	// Get retrieves an invoice by numeric id within the tenant
	Get(ctx context.Context, id int64) (*Invoice, error)

	// GetByUID retrieves an invoice by business uid within the tenant
	GetByUID(ctx context.Context, uid string) (*Invoice, error)

	// Update persists the invoice row
	Update(ctx context.Context, inv *Invoice) error

	// ListItems returns the line items attached to the invoice uid
	ListItems(ctx context.Context, invoiceUID string) ([]*Item, error)

	// ReplaceItems deletes the invoice's line items and writes the given set
	ReplaceItems(ctx context.Context, invoiceUID string, items []*Item) error

	// StampItemFNEID sets the authority line identifier on one item
	StampItemFNEID(ctx context.Context, itemID int64, fneItemID string) error

	// ListRefunds returns refund invoices pointing at the original with the
	// given status
	ListRefunds(ctx context.Context, originalInvoiceID int64, status types.InvoiceStatus) ([]*Invoice, error)

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
}

// ReceivedItemRepository persists the authority snapshot. Replacement is
// wholesale: a successful certification always produces exactly one
// authoritative snapshot set.
type ReceivedItemRepository interface {
	// ReplaceForInvoice deletes any prior snapshot rows for the invoice and
	// inserts the given set as one unit
	ReplaceForInvoice(ctx context.Context, invoiceID int64, items []*ReceivedItem) error

	// ListByInvoice returns the snapshot rows for the invoice
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*ReceivedItem, error)
}
