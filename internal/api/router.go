package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/mohessea007/FNE/internal/api/v1"
	"github.com/mohessea007/FNE/internal/cache"
	"github.com/mohessea007/FNE/internal/config"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/rest/middleware"
	"github.com/mohessea007/FNE/internal/types"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health  *v1.HealthHandler
	Invoice *v1.InvoiceHandler
}

// NewRouter wires the HTTP surface: a public health probe and the API-key
// protected v1 invoice routes.
func NewRouter(
	cfg *config.Configuration,
	handlers Handlers,
	tenantRepo tenant.Repository,
	c cache.Cache,
	log *logger.Logger,
) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", handlers.Health.Health)

	api := router.Group("/v1")
	api.Use(middleware.APIKeyAuth(tenantRepo, c, log))
	{
		invoices := api.Group("/invoices")
		invoices.POST("", handlers.Invoice.CreateAndCertify)
		invoices.GET("", handlers.Invoice.List)
		invoices.GET("/:id", handlers.Invoice.Get)
		invoices.PUT("/:id", handlers.Invoice.Recertify)
		invoices.POST("/:id/certify", handlers.Invoice.Certify)
		invoices.POST("/:id/refund", handlers.Invoice.Refund)
		invoices.GET("/:id/logs", handlers.Invoice.ListLogs)
	}

	return router
}
