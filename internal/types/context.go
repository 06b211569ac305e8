package types

import (
	"context"
	"fmt"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxTenantID      ContextKey = "ctx_tenant_id"
	CtxUserID        ContextKey = "ctx_user_id"
	CtxDBTransaction ContextKey = "ctx_db_transaction"

	// APIUserID is the acting-user id recorded on audit logs for
	// API-key originated calls (no human session behind the request).
	APIUserID int64 = 0
)

// GetTenantID returns the company uid the request is scoped to.
func GetTenantID(ctx context.Context) string {
	if tenantID, ok := ctx.Value(CtxTenantID).(string); ok {
		return tenantID
	}
	return ""
}

// GetUserID returns the acting user id, or APIUserID for machine calls.
func GetUserID(ctx context.Context) int64 {
	if userID, ok := ctx.Value(CtxUserID).(int64); ok {
		return userID
	}
	return APIUserID
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// SetTenantID sets the tenant (company uid) in the context
func SetTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, CtxTenantID, tenantID)
}

// SetUserID sets the acting user id in the context
func SetUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// ValidateTenantContext validates that the required tenant context is present.
// Every repository query is scoped by this value; a missing tenant is a bug,
// not a recoverable condition.
func ValidateTenantContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is nil")
	}

	if GetTenantID(ctx) == "" {
		return fmt.Errorf("no tenant context found in context")
	}

	return nil
}
