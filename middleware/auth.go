package middleware

import (
	"net/http"
	"strings"

	"github.com/Prince5598/Cloud-Storage/identity"
	"github.com/Prince5598/Cloud-Storage/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const UserIDKey = "user_id"

func AuthMiddleware(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			utils.Error(c, http.StatusUnauthorized, "malformed authorization header")
			c.Abort()
			return
		}

		subject, err := provider.Identify(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected token")
			utils.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, subject)
		c.Next()
	}
}

// CurrentUserID returns the subject set by AuthMiddleware, or "".
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
