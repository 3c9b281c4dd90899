package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smartodonto/clinic-api/pkg/httputil"
)

// ErrorHandler renders the last error handlers attached with c.Error as the
// error envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only handle errors if they exist
		if len(c.Errors) == 0 {
			return
		}

		lastErr := c.Errors.Last()
		status, resp := httputil.ErrorResponse(lastErr.Err)
		if lastErr.IsType(gin.ErrorTypeBind) && status == http.StatusInternalServerError {
			status, resp = http.StatusBadRequest, httputil.NewErrorResponse("invalid request")
		}

		logger := log.Ctx(c.Request.Context())
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Err(lastErr.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", status).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, resp)
	}
}
