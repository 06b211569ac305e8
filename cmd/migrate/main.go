package main

import (
	"log"

	"github.com/mohessea007/FNE/internal/config"
	"github.com/mohessea007/FNE/internal/domain/invoice"
	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/postgres"
)

// migrate creates or updates the database schema from the domain models.
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	db, err := postgres.NewDB(cfg, zlog)
	if err != nil {
		zlog.Fatalw("failed to connect to database", "error", err)
	}

	err = db.AutoMigrate(
		&tenant.Company{},
		&tenant.Client{},
		&tenant.PointOfSale{},
		&invoice.Invoice{},
		&invoice.Item{},
		&invoice.ReceivedItem{},
		&invoicelog.InvoiceLog{},
	)
	if err != nil {
		zlog.Fatalw("migration failed", "error", err)
	}

	zlog.Infow("migration complete", "database", cfg.Postgres.DBName)
}
