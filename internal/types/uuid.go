package types

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GenerateRequestID returns a k-sortable unique identifier used to correlate
// log lines belonging to one request.
func GenerateRequestID() string {
	return ulid.Make().String()
}

// GenerateUID returns a business-facing unique identifier for a new invoice
// (the uid_invoice exposed to API consumers).
func GenerateUID() string {
	return uuid.NewString()
}

// IsAuthorityUUID reports whether s is a well-formed canonical UUID of the
// shape the authority assigns to invoices and line items
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx). Authority identifiers in any other
// form are residual bad data and must not be sent back on refund calls.
func IsAuthorityUUID(s string) bool {
	if len(s) != 36 || strings.Count(s, "-") != 4 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
