package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/casemap-backend-go/internal/auth"
	"github.com/jengzang/casemap-backend-go/pkg/response"
)

// ClaimsKey is the context key holding verified token claims
const ClaimsKey = "claims"

// RequireAdmin accepts only bearer tokens carrying the admin role
func RequireAdmin(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims, err := signer.Parse(token)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}
		if claims.Role != auth.RoleAdmin {
			response.Forbidden(c, "admin role required")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
