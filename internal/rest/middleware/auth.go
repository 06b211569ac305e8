package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohessea007/FNE/internal/cache"
	"github.com/mohessea007/FNE/internal/domain/tenant"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/types"
)

const companyCacheExpiry = 5 * time.Minute

// APIKeyAuth resolves the x-api-key header to a company and scopes the
// request context to that tenant. Every handler behind it can rely on a
// tenant id being present. The resolved company is cached briefly to keep
// the hot path off the database.
func APIKeyAuth(repo tenant.Repository, c cache.Cache, log *logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		apiKey := ctx.GetHeader("x-api-key")
		if apiKey == "" {
			ctx.AbortWithStatusJSON(401, ierr.ErrorResponse{
				Success: false,
				Error:   ierr.ErrorDetail{Display: "Clé API requise"},
			})
			return
		}

		company, err := lookupCompany(ctx, apiKey, repo, c)
		if err != nil {
			log.Warnw("api key rejected", "error", err)
			ctx.AbortWithStatusJSON(ierr.HTTPStatusFromErr(err), buildErrorResponse(err))
			return
		}

		reqCtx := types.SetTenantID(ctx.Request.Context(), company.UID)
		reqCtx = types.SetUserID(reqCtx, types.APIUserID)
		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Next()
	}
}

func lookupCompany(ctx *gin.Context, apiKey string, repo tenant.Repository, c cache.Cache) (*tenant.Company, error) {
	key := cache.GenerateKey(cache.PrefixCompany, apiKey)
	if cached, ok := c.Get(ctx.Request.Context(), key); ok {
		if company, ok := cached.(*tenant.Company); ok {
			return company, nil
		}
	}

	company, err := repo.GetByAPIKey(ctx.Request.Context(), apiKey)
	if err != nil {
		return nil, err
	}
	c.Set(ctx.Request.Context(), key, company, companyCacheExpiry)
	return company, nil
}
