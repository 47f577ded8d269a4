package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/uzhroute/uzhroute/pkg/security"
)

// SanitizeRequest normalizes query parameters before handlers read them.
// Only control characters and markup are stripped; Cyrillic search text is
// left intact.
func SanitizeRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		changed := false

		for key, values := range query {
			for i, value := range values {
				sanitized := security.SanitizeString(value)
				if sanitized != value {
					query[key][i] = sanitized
					changed = true
				}
			}
		}

		if changed {
			c.Request.URL.RawQuery = query.Encode()
		}

		c.Next()
	}
}
