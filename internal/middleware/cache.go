package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoCache lets clients keep public listings but requires them to revalidate
// on every use. Paired with response.SuccessWithETag.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Next()
	}
}

// NoStore forbids caching. Applied to routes that return tokens or account data.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
