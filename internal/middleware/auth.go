// Package middleware holds the gin middleware for the REST surface.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"collab-canvas/internal/service"
)

// IdentityKey is the gin context key carrying the authenticated
// identity set by Auth.
const IdentityKey = "identity"

// Auth verifies the bearer token through the same verifier the
// realtime connection gate uses and attaches the resolved identity to
// the request context.
func Auth(authSvc *service.AuthService) gin.HandlerFunc {
	if authSvc == nil {
		panic("AuthService cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		token := bearerToken(c)

		identity, err := authSvc.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logrus.WithField("reason", service.AuthErrorTag(err)).Debug("REST request rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.AuthErrorTag(err)})
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
