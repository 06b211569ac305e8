package middleware

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/types"
)

const safeDetailsPrefix = "__json__:"

// ErrorHandler converts errors attached to the gin context into the uniform
// error envelope. The HTTP status is derived from the sentinel the error was
// marked with; the message is the user-facing hint, never the internal chain.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		if status >= 500 {
			log.Errorw("request failed",
				"request_id", types.GetRequestID(c.Request.Context()),
				"path", c.Request.URL.Path,
				"error", err)
		}

		c.JSON(status, buildErrorResponse(err))
	}
}

func buildErrorResponse(err error) ierr.ErrorResponse {
	display := "Une erreur interne est survenue"
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		display = hints[len(hints)-1]
	}

	detail := ierr.ErrorDetail{Display: display}

	var internal *ierr.InternalError
	if ierr.As(err, &internal) {
		detail.InternalError = internal.Code
	}

	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, s := range payload.SafeDetails {
			if !strings.HasPrefix(s, safeDetailsPrefix) {
				continue
			}
			var details map[string]any
			if json.Unmarshal([]byte(strings.TrimPrefix(s, safeDetailsPrefix)), &details) == nil {
				detail.Details = details
			}
		}
	}

	return ierr.ErrorResponse{Success: false, Error: detail}
}
