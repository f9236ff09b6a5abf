// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// I18nMiddleware resolves the request language from the Accept-Language
// header and stores it in the context for response helpers.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := "en"
		if header := c.GetHeader("Accept-Language"); header != "" {
			primary := strings.Split(header, ",")[0]
			primary = strings.Split(primary, ";")[0]
			primary = strings.TrimSpace(primary)
			if primary != "" {
				lang = primary
			}
		}
		c.Set("lang", lang)
		c.Next()
	}
}
