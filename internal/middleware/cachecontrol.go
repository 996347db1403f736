package middleware

import "github.com/gin-gonic/gin"

// CacheControl marks every response as non-cacheable. Reports and
// assessment data are per-viewer medical records and must never land in
// a shared cache.
func CacheControl() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
