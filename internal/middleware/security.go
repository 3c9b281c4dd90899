package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// SecurityConfig holds the response headers applied to every API response.
type SecurityConfig struct {
	// HSTSMaxAge enables Strict-Transport-Security when positive.
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	ReferrerPolicy     string
	// CacheControl keeps proxies from serving a stale schedule.
	CacheControl string
}

func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		FrameOptions:       "DENY",
		ContentTypeOptions: "nosniff",
		ReferrerPolicy:     "no-referrer",
		CacheControl:       "no-store",
	}
}

func SecurityHeaders(config SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.HSTSMaxAge > 0 {
			c.Header("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", config.HSTSMaxAge))
		}
		setHeader(c, "X-Frame-Options", config.FrameOptions)
		setHeader(c, "X-Content-Type-Options", config.ContentTypeOptions)
		setHeader(c, "Referrer-Policy", config.ReferrerPolicy)
		setHeader(c, "Cache-Control", config.CacheControl)

		c.Next()
	}
}

func setHeader(c *gin.Context, key, value string) {
	if value != "" {
		c.Header(key, value)
	}
}
