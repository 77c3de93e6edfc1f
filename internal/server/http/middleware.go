package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/identitykeeper/internal/server/auth"
	"github.com/dmitrijs2005/identitykeeper/internal/tenant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const claimsContextKey = "claims"

// authMiddleware verifies the bearer access token, stores the parsed
// claims for handlers, and attaches the caller's tenant to the request
// context so tenant-scoped repositories downstream filter by it.
func (s *HTTPServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenString, s.jwtSecret, s.issuer, s.audience)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)

		if claims.TenantID != "" {
			tenantID, err := uuid.Parse(claims.TenantID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				c.Abort()
				return
			}
			c.Request = c.Request.WithContext(tenant.WithTenant(c.Request.Context(), tenantID))
		}

		c.Next()
	}
}

// requireRole rejects callers whose access token does not carry role.
func (s *HTTPServer) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok || !slices.Contains(claims.Roles, role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
