package postgres

import (
	"context"

	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/postgres"
)

type invoiceLogRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewInvoiceLogRepository(db postgres.IClient, log *logger.Logger) invoicelog.Repository {
	return &invoiceLogRepository{db: db, logger: log}
}

func (r *invoiceLogRepository) Create(ctx context.Context, entry *invoicelog.InvoiceLog) error {
	if err := r.db.Querier(ctx).Create(entry).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to write audit log").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceLogRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*invoicelog.InvoiceLog, error) {
	var logs []*invoicelog.InvoiceLog
	err := r.db.Querier(ctx).
		Where("invoiceid = ?", invoiceID).
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list audit log").
			Mark(ierr.ErrDatabase)
	}
	return logs, nil
}

func (r *invoiceLogRepository) CountByInvoice(ctx context.Context, invoiceID int64) (int, error) {
	var count int64
	err := r.db.Querier(ctx).
		Model(&invoicelog.InvoiceLog{}).
		Where("invoiceid = ?", invoiceID).
		Count(&count).Error
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count audit log").
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}
