package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lkoehl/threesixty-server/config"
	"github.com/lkoehl/threesixty-server/utils"
)

const HeaderAdminKey = "X-Admin-Key"

// RequireAdminKey guards the question bank endpoints. The key is compared
// against the bcrypt hash in ADMIN_KEY_HASH; with no hash configured the
// endpoints are disabled entirely.
func RequireAdminKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderAdminKey)
		if !utils.VerifyAdminKey(config.Env.AdminKeyHash, key) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.Next()
	}
}
