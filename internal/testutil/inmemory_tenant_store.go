package testutil

import (
	"context"
	"fmt"

	"github.com/mohessea007/FNE/internal/domain/tenant"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/types"
)

// InMemoryTenantStore implements tenant.Repository.
type InMemoryTenantStore struct {
	companies    *InMemoryStore[*tenant.Company]
	clients      *InMemoryStore[*tenant.Client]
	pointsOfSale *InMemoryStore[*tenant.PointOfSale]
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		companies:    NewInMemoryStore[*tenant.Company](),
		clients:      NewInMemoryStore[*tenant.Client](),
		pointsOfSale: NewInMemoryStore[*tenant.PointOfSale](),
	}
}

func (s *InMemoryTenantStore) AddCompany(company *tenant.Company) {
	s.companies.Set(company.UID, company)
}

func (s *InMemoryTenantStore) AddClient(client *tenant.Client) {
	s.clients.Set(fmt.Sprintf("client-%d", client.ID), client)
}

func (s *InMemoryTenantStore) AddPointOfSale(pos *tenant.PointOfSale) {
	s.pointsOfSale.Set(fmt.Sprintf("pos-%d", pos.ID), pos)
}

func (s *InMemoryTenantStore) GetByUID(_ context.Context, uid string) (*tenant.Company, error) {
	company, ok := s.companies.Get(uid)
	if !ok {
		return nil, ierr.NewError("company not found").
			WithHint("Entreprise introuvable").
			Mark(ierr.ErrNotFound)
	}
	cp := *company
	return &cp, nil
}

func (s *InMemoryTenantStore) GetByAPIKey(_ context.Context, apiKey string) (*tenant.Company, error) {
	matches := s.companies.List(func(c *tenant.Company) bool {
		return c.APIKey == apiKey && c.IsActive
	})
	if len(matches) == 0 {
		return nil, ierr.NewError("unknown api key").
			WithHint("Clé API invalide").
			Mark(ierr.ErrPermissionDenied)
	}
	cp := *matches[0]
	return &cp, nil
}

func (s *InMemoryTenantStore) GetClient(ctx context.Context, clientID int64) (*tenant.Client, error) {
	client, ok := s.clients.Get(fmt.Sprintf("client-%d", clientID))
	if !ok || client.CompanyUID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("client not found").
			WithHint("Client introuvable").
			Mark(ierr.ErrNotFound)
	}
	cp := *client
	return &cp, nil
}

func (s *InMemoryTenantStore) GetPointOfSale(ctx context.Context, posID int64) (*tenant.PointOfSale, error) {
	pos, ok := s.pointsOfSale.Get(fmt.Sprintf("pos-%d", posID))
	if !ok || pos.CompanyUID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("point of sale not found").
			WithHint("Point de vente introuvable").
			Mark(ierr.ErrNotFound)
	}
	cp := *pos
	return &cp, nil
}

func (s *InMemoryTenantStore) Clear() {
	s.companies.Clear()
	s.clients.Clear()
	s.pointsOfSale.Clear()
}

var _ tenant.Repository = (*InMemoryTenantStore)(nil)
