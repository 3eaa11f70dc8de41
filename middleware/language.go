package middleware

import (
	"github.com/gin-gonic/gin"

	"zoo/i18n"
)

const langKey = "lang"

// Language stores the negotiated response language on the context.
// The lang query parameter wins over Accept-Language.
func Language(bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langKey, bundle.Match(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// GetLanguage returns the negotiated language, or def when none was set.
func GetLanguage(c *gin.Context, def string) string {
	if lang := c.GetString(langKey); lang != "" {
		return lang
	}
	return def
}
