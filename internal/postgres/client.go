package postgres

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mohessea007/FNE/internal/config"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/types"
)

// IClient hides the concrete DB handle behind transaction-aware access.
// Querier returns the ambient transaction when one is in flight, so
// repositories never care whether they run inside WithTx.
type IClient interface {
	Querier(ctx context.Context) *gorm.DB
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type client struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewClient wraps an established gorm handle.
func NewClient(db *gorm.DB, log *logger.Logger) IClient {
	return &client{db: db, logger: log}
}

func (c *client) Querier(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(types.CtxDBTransaction).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return c.db.WithContext(ctx)
}

// WithTx runs fn inside a database transaction. The transaction rides the
// context, so every repository call made from fn joins it automatically.
// Nested calls reuse the already open transaction.
func (c *client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(types.CtxDBTransaction).(*gorm.DB); ok {
		return fn(ctx)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, types.CtxDBTransaction, tx)
		return fn(txCtx)
	})
}

// NewDB opens the postgres connection pool described by the configuration.
func NewDB(cfg *config.Configuration, log *logger.Logger) (*gorm.DB, error) {
	gormLogLevel := gormlogger.Warn
	if cfg.Logging.Level == types.LogLevelDebug {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to the database").
			Mark(ierr.ErrDatabase)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to configure the database pool").
			Mark(ierr.ErrDatabase)
	}
	sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)

	log.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"database", cfg.Postgres.DBName)

	return db, nil
}
