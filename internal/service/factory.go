package service

import (
	"context"

	"github.com/mohessea007/FNE/internal/config"
	"github.com/mohessea007/FNE/internal/domain/invoice"
	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/postgres"
)

// AuthorityGateway abstracts the certification authority so services can be
// tested against a scripted double. The concrete implementation is
// fne.Gateway.
type AuthorityGateway interface {
	Certify(ctx context.Context, inv *fne.WireInvoice, authToken string) *fne.Result
	Refund(ctx context.Context, authorityInvoiceID string, items []fne.RefundItem, authToken string) *fne.Result
}

// ServiceParams bundles every dependency a service can need. Services pick
// what they use; construction sites stay uniform.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	InvoiceRepo      invoice.Repository
	ReceivedItemRepo invoice.ReceivedItemRepository
	LogRepo          invoicelog.Repository
	TenantRepo       tenant.Repository

	Gateway     AuthorityGateway
	TokenParser *fne.TokenParser
}
