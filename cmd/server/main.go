package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/mohessea007/FNE/internal/api"
	v1 "github.com/mohessea007/FNE/internal/api/v1"
	"github.com/mohessea007/FNE/internal/cache"
	"github.com/mohessea007/FNE/internal/config"
	"github.com/mohessea007/FNE/internal/domain/invoice"
	"github.com/mohessea007/FNE/internal/domain/invoicelog"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/httpclient"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/postgres"
	"github.com/mohessea007/FNE/internal/repository"
	"github.com/mohessea007/FNE/internal/service"
)

func main() {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			postgres.NewDB,
			postgres.NewClient,
			cache.NewInMemoryCache,
			newHTTPClient,
			newAuthorityGateway,
			newTokenParser,
			repository.NewInvoiceRepository,
			repository.NewReceivedItemRepository,
			repository.NewInvoiceLogRepository,
			repository.NewTenantRepository,
			newServiceParams,
			service.NewCertificationService,
			service.NewRefundService,
			service.NewInvoiceService,
			v1.NewHealthHandler,
			v1.NewInvoiceHandler,
			newRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func newHTTPClient(cfg *config.Configuration) httpclient.Client {
	return httpclient.NewDefaultClient(cfg.FNE.Timeout)
}

func newAuthorityGateway(cfg *config.Configuration, client httpclient.Client, log *logger.Logger) service.AuthorityGateway {
	return fne.NewGateway(cfg, client, log)
}

func newTokenParser(cfg *config.Configuration) *fne.TokenParser {
	return fne.NewTokenParser(cfg.FNE.VerificationURL)
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	db postgres.IClient,
	invoiceRepo invoice.Repository,
	receivedItemRepo invoice.ReceivedItemRepository,
	logRepo invoicelog.Repository,
	tenantRepo tenant.Repository,
	gateway service.AuthorityGateway,
	tokenParser *fne.TokenParser,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		DB:               db,
		InvoiceRepo:      invoiceRepo,
		ReceivedItemRepo: receivedItemRepo,
		LogRepo:          logRepo,
		TenantRepo:       tenantRepo,
		Gateway:          gateway,
		TokenParser:      tokenParser,
	}
}

func newRouter(
	cfg *config.Configuration,
	health *v1.HealthHandler,
	invoiceHandler *v1.InvoiceHandler,
	tenantRepo tenant.Repository,
	c cache.Cache,
	log *logger.Logger,
) *gin.Engine {
	return api.NewRouter(cfg, api.Handlers{Health: health, Invoice: invoiceHandler}, tenantRepo, c, log)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *gin.Engine,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}
