package middleware

import (
	"strings"

	"tradelink/models"
	"tradelink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Identity attaches the signed-in user to the context when a valid bearer
// token is present. Requests without one go through anonymously.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || tokenString == "" || tokenString == authHeader {
			c.Next()
			return
		}

		u, err := utils.IdentityFromToken(tokenString)
		if err != nil {
			zap.L().Debug("Ignoring invalid identity token", zap.Error(err))
			c.Next()
			return
		}
		c.Set(utils.IdentityContextKey, u)
		c.Next()
	}
}

// CurrentIdentity returns the user set by Identity, if any.
func CurrentIdentity(c *gin.Context) (models.CurrentUser, bool) {
	v, ok := c.Get(utils.IdentityContextKey)
	if !ok {
		return models.CurrentUser{}, false
	}
	u, ok := v.(models.CurrentUser)
	return u, ok
}
