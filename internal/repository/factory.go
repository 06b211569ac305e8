package repository

import (
	"github.com/mohessea007/FNE/internal/domain/invoice"
	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/postgres"
	repo "github.com/mohessea007/FNE/internal/repository/postgres"
)

func NewInvoiceRepository(db postgres.IClient, log *logger.Logger) invoice.Repository {
	return repo.NewInvoiceRepository(db, log)
}

func NewReceivedItemRepository(db postgres.IClient, log *logger.Logger) invoice.ReceivedItemRepository {
	return repo.NewReceivedItemRepository(db, log)
}

func NewInvoiceLogRepository(db postgres.IClient, log *logger.Logger) invoicelog.Repository {
	return repo.NewInvoiceLogRepository(db, log)
}

func NewTenantRepository(db postgres.IClient, log *logger.Logger) tenant.Repository {
	return repo.NewTenantRepository(db, log)
}
