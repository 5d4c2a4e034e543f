package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/taplink-saas/utils"
)

const (
	ContextTenantID = "tenantID"
	ContextSubject  = "subject"
	ContextRole     = "role"
)

// AuthMiddleware verifies the bearer token issued by the identity provider
// and puts the tenant, subject and role of the caller on the context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *utils.CustomClaims) {
	c.Set(ContextTenantID, claims.TenantID)
	c.Set(ContextSubject, claims.Subject)
	c.Set(ContextRole, claims.Role)
}

// TenantID returns the tenant of the authenticated caller.
func TenantID(c *gin.Context) uint {
	return c.GetUint(ContextTenantID)
}
