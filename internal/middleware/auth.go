package middleware

import (
	"examhall_backend/internal/config"
	"examhall_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the identity provider's bearer token and puts
// the parsed claims on the context. No token, no session: the engine never
// runs an anonymous attempt.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
