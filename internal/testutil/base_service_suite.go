package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/mohessea007/FNE/internal/config"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/service"
)

// BaseServiceSuite wires a full service dependency set against in-memory
// stores and a scripted HTTP client. Suites embedding it get a fresh state
// per test via SetupTest.
type BaseServiceSuite struct {
	suite.Suite

	ctx    context.Context
	params service.ServiceParams

	InvoiceStore      *InMemoryInvoiceStore
	ReceivedItemStore *InMemoryReceivedItemStore
	LogStore          *InMemoryInvoiceLogStore
	TenantStore       *InMemoryTenantStore
	DBClient          *FakeDBClient
	HTTPClient        *MockHTTPClient
}

func (s *BaseServiceSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	s.Require().NoError(err)

	s.ctx = SetupContext()
	s.InvoiceStore = NewInMemoryInvoiceStore()
	s.ReceivedItemStore = NewInMemoryReceivedItemStore()
	s.LogStore = NewInMemoryInvoiceLogStore()
	s.TenantStore = NewInMemoryTenantStore()
	s.DBClient = NewFakeDBClient()
	s.HTTPClient = NewMockHTTPClient()

	s.params = service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		DB:               s.DBClient,
		InvoiceRepo:      s.InvoiceStore,
		ReceivedItemRepo: s.ReceivedItemStore,
		LogRepo:          s.LogStore,
		TenantRepo:       s.TenantStore,
		Gateway:          fne.NewGateway(cfg, s.HTTPClient, log),
		TokenParser:      fne.NewTokenParser(cfg.FNE.VerificationURL),
	}
}

func (s *BaseServiceSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceSuite) GetParams() service.ServiceParams {
	return s.params
}

// SeedTenant installs the test company with a working authority token plus
// one client and one point of sale, and returns the company.
func (s *BaseServiceSuite) SeedTenant() *tenant.Company {
	company := &tenant.Company{
		ID:                1,
		UID:               TestTenantID,
		Name:              "Boutique Abidjan SARL",
		NCC:               "1234567A",
		FNEToken:          "test-fne-token",
		APIKey:            "test-api-key",
		CommercialMessage: "Merci de votre visite",
		Footer:            "Boutique Abidjan SARL - RCCM CI-ABJ-2020",
		IsActive:          true,
	}
	s.TenantStore.AddCompany(company)
	s.TenantStore.AddClient(&tenant.Client{
		ID:          1,
		CompanyUID:  TestTenantID,
		Type:        tenant.ClientTypeB2C,
		NCC:         "7654321B",
		CompanyName: "Client Comptant",
		Phone:       "+2250701020304",
	})
	s.TenantStore.AddPointOfSale(&tenant.PointOfSale{
		ID:         1,
		CompanyUID: TestTenantID,
		Name:       "Caisse principale",
		IsDefault:  true,
	})
	return company
}
