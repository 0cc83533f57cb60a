package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"syntra-backoffice/internal/session"
	sysutils "syntra-backoffice/internal/utils"
)

const SessionKey = "session"

func errorBody(message string) gin.H {
	return gin.H{"success": false, "message": message}
}

// JWTAuth verifies the bearer token and stores the caller's session both in
// the gin context and in the request context, where the gRPC client picks it up.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("missing bearer token"))
			return
		}

		claims, err := sysutils.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("invalid or expired token"))
			return
		}

		sess := claims.Session()
		c.Set(SessionKey, sess)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Next()
	}
}
