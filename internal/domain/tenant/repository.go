package tenant

import "context"

// Repository defines persistence operations for companies and the parties
// referenced by invoices. Client and point-of-sale lookups are scoped to the
// tenant in the context, never by numeric id alone.
type Repository interface {
	// GetByUID retrieves a company by its uid
	GetByUID(ctx context.Context, uid string) (*Company, error)

	// GetByAPIKey retrieves the company owning the given API key
	GetByAPIKey(ctx context.Context, apiKey string) (*Company, error)

	// GetClient retrieves a client belonging to the tenant in context
	GetClient(ctx context.Context, clientID int64) (*Client, error)

	// GetPointOfSale retrieves a point of sale belonging to the tenant in context
	GetPointOfSale(ctx context.Context, posID int64) (*PointOfSale, error)
}
