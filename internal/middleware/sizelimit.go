package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartodonto/clinic-api/pkg/httputil"
)

// DefaultMaxBodySize fits any booking or availability payload.
const DefaultMaxBodySize int64 = 64 << 10

// BodyLimit rejects bodies larger than max bytes. Bodies without a declared
// length are cut off at max while being read.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				httputil.NewErrorResponse("request body too large"))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
