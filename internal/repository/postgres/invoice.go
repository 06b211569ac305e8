package postgres

import (
	"context"
	goerrors "errors"

	"gorm.io/gorm"

	"github.com/mohessea007/FNE/internal/domain/invoice"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/postgres"
	"github.com/mohessea007/FNE/internal/types"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(db postgres.IClient, log *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: log}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	inv.CompanyUID = types.GetTenantID(ctx)
	if err := r.db.Querier(ctx).Create(inv).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) CreateWithItems(ctx context.Context, inv *invoice.Invoice, items []*invoice.Item) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		if err := r.Create(ctx, inv); err != nil {
			return err
		}
		tenantID := types.GetTenantID(ctx)
		for _, item := range items {
			item.CompanyUID = tenantID
			item.InvoiceUID = inv.UID
		}
		if len(items) == 0 {
			return nil
		}
		if err := r.db.Querier(ctx).Create(items).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create invoice items").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.Querier(ctx).
		Where("id = ? AND uid_companie = ?", id, types.GetTenantID(ctx)).
		First(&inv).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("invoice not found").
				WithHint("Facture introuvable").
				WithReportableDetails(map[string]any{"id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to retrieve invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByUID(ctx context.Context, uid string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.Querier(ctx).
		Where("uid_invoice = ? AND uid_companie = ?", uid, types.GetTenantID(ctx)).
		First(&inv).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("invoice not found").
				WithHint("Facture introuvable").
				WithReportableDetails(map[string]any{"uid": uid}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to retrieve invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	result := r.db.Querier(ctx).
		Where("id = ? AND uid_companie = ?", inv.ID, types.GetTenantID(ctx)).
		Select("*").
		Omit("id", "uid_companie", "date_creation").
		Updates(inv)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		return ierr.NewError("invoice not found").
			WithHint("Facture introuvable").
			WithReportableDetails(map[string]any{"id": inv.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *invoiceRepository) ListItems(ctx context.Context, invoiceUID string) ([]*invoice.Item, error) {
	var items []*invoice.Item
	err := r.db.Querier(ctx).
		Where("uid_invoice = ? AND uid_companie = ?", invoiceUID, types.GetTenantID(ctx)).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoice items").
			Mark(ierr.ErrDatabase)
	}
	return items, nil
}

func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoiceUID string, items []*invoice.Item) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		tenantID := types.GetTenantID(ctx)
		err := r.db.Querier(ctx).
			Where("uid_invoice = ? AND uid_companie = ?", invoiceUID, tenantID).
			Delete(&invoice.Item{}).Error
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to replace invoice items").
				Mark(ierr.ErrDatabase)
		}
		if len(items) == 0 {
			return nil
		}
		for _, item := range items {
			item.ID = 0
			item.CompanyUID = tenantID
			item.InvoiceUID = invoiceUID
		}
		if err := r.db.Querier(ctx).Create(items).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to replace invoice items").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *invoiceRepository) StampItemFNEID(ctx context.Context, itemID int64, fneItemID string) error {
	err := r.db.Querier(ctx).
		Model(&invoice.Item{}).
		Where("id = ? AND uid_companie = ?", itemID, types.GetTenantID(ctx)).
		Update("fne_item_id", fneItemID).Error
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to stamp item").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) ListRefunds(ctx context.Context, originalInvoiceID int64, status types.InvoiceStatus) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	err := r.db.Querier(ctx).
		Where("original_invoice_id = ? AND uid_companie = ? AND is_refund = ? AND status = ?",
			originalInvoiceID, types.GetTenantID(ctx), true, status).
		Find(&invoices).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list refunds").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	query := r.applyFilter(ctx, filter).
		Order("id DESC").
		Limit(filter.GetLimit()).
		Offset(filter.GetOffset())
	if err := query.Find(&invoices).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}

func (r *invoiceRepository) applyFilter(ctx context.Context, filter *types.InvoiceFilter) *gorm.DB {
	query := r.db.Querier(ctx).
		Model(&invoice.Invoice{}).
		Where("uid_companie = ?", types.GetTenantID(ctx))
	if filter == nil {
		return query
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type_invoice = ?", *filter.Type)
	}
	if filter.IsRefund != nil {
		query = query.Where("is_refund = ?", *filter.IsRefund)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("uid_invoice ILIKE ? OR fne_reference ILIKE ?", pattern, pattern)
	}
	return query
}

type receivedItemRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewReceivedItemRepository(db postgres.IClient, log *logger.Logger) invoice.ReceivedItemRepository {
	return &receivedItemRepository{db: db, logger: log}
}

func (r *receivedItemRepository) ReplaceForInvoice(ctx context.Context, invoiceID int64, items []*invoice.ReceivedItem) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		err := r.db.Querier(ctx).
			Where("invoice_id = ?", invoiceID).
			Delete(&invoice.ReceivedItem{}).Error
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to replace authority snapshot").
				Mark(ierr.ErrDatabase)
		}
		if len(items) == 0 {
			return nil
		}
		for _, item := range items {
			item.ID = 0
			item.InvoiceID = invoiceID
		}
		if err := r.db.Querier(ctx).Create(items).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to replace authority snapshot").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *receivedItemRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*invoice.ReceivedItem, error) {
	var items []*invoice.ReceivedItem
	err := r.db.Querier(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list authority snapshot").
			Mark(ierr.ErrDatabase)
	}
	return items, nil
}
