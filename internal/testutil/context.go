package testutil

import (
	"context"

	"github.com/mohessea007/FNE/internal/types"
)

const (
	// TestTenantID is the company uid every test context is scoped to.
	TestTenantID = "test-company-uid"
	// TestUserID marks test requests as console originated.
	TestUserID = int64(42)
)

// SetupContext returns a context scoped to the test tenant.
func SetupContext() context.Context {
	ctx := types.SetTenantID(context.Background(), TestTenantID)
	return types.SetUserID(ctx, TestUserID)
}
