package testutil

import (
	"context"

	"gorm.io/gorm"

	"github.com/mohessea007/FNE/internal/postgres"
)

// FakeDBClient satisfies postgres.IClient for service tests backed by
// in-memory repositories. WithTx runs the function directly; CommitErr, when
// set, is returned after the function succeeds to simulate a commit failure
// behind an already accepted authority call.
type FakeDBClient struct {
	CommitErr error
	TxCount   int
}

func NewFakeDBClient() *FakeDBClient {
	return &FakeDBClient{}
}

func (c *FakeDBClient) Querier(_ context.Context) *gorm.DB {
	return nil
}

func (c *FakeDBClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	c.TxCount++
	if err := fn(ctx); err != nil {
		return err
	}
	return c.CommitErr
}

var _ postgres.IClient = (*FakeDBClient)(nil)
