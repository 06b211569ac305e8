package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mohessea007/FNE/internal/types"
)

// RequestID attaches a request id to the context and echoes it back so
// failed authority interactions can be correlated with client reports.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("x-request-id")
		if requestID == "" {
			requestID = types.GenerateRequestID()
		}

		ctx := context.WithValue(c.Request.Context(), types.CtxRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("x-request-id", requestID)
		c.Next()
	}
}
