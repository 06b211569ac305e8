package postgres

import (
	"context"
	goerrors "errors"

	"gorm.io/gorm"

	"github.com/mohessea007/FNE/internal/domain/tenant"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/postgres"
	"github.com/mohessea007/FNE/internal/types"
)

type tenantRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewTenantRepository(db postgres.IClient, log *logger.Logger) tenant.Repository {
	return &tenantRepository{db: db, logger: log}
}

func (r *tenantRepository) GetByUID(ctx context.Context, uid string) (*tenant.Company, error) {
	var company tenant.Company
	err := r.db.Querier(ctx).
		Where("uid_companie = ?", uid).
		First(&company).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("company not found").
				WithHint("Entreprise introuvable").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to retrieve company").
			Mark(ierr.ErrDatabase)
	}
	return &company, nil
}

func (r *tenantRepository) GetByAPIKey(ctx context.Context, apiKey string) (*tenant.Company, error) {
	var company tenant.Company
	err := r.db.Querier(ctx).
		Where("api_key = ? AND is_active = ?", apiKey, true).
		First(&company).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("unknown api key").
				WithHint("Clé API invalide").
				Mark(ierr.ErrPermissionDenied)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to retrieve company").
			Mark(ierr.ErrDatabase)
	}
	return &company, nil
}

func (r *tenantRepository) GetClient(ctx context.Context, clientID int64) (*tenant.Client, error) {
	var cl tenant.Client
	err := r.db.Querier(ctx).
		Where("id = ? AND uid_companie = ?", clientID, types.GetTenantID(ctx)).
		First(&cl).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("client not found").
				WithHint("Client introuvable").
				WithReportableDetails(map[string]any{"client_id": clientID}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to retrieve client").
			Mark(ierr.ErrDatabase)
	}
	return &cl, nil
}

func (r *tenantRepository) GetPointOfSale(ctx context.Context, posID int64) (*tenant.PointOfSale, error) {
	var pos tenant.PointOfSale
	err := r.db.Querier(ctx).
		Where("id = ? AND uid_companie = ?", posID, types.GetTenantID(ctx)).
		First(&pos).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("point of sale not found").
				WithHint("Point de vente introuvable").
				WithReportableDetails(map[string]any{"point_of_sale_id": posID}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to retrieve point of sale").
			Mark(ierr.ErrDatabase)
	}
	return &pos, nil
}
