package middleware

import (
	"net/http"
	"strings"

	"stoutscout_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys for the request-scoped principal.
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxUserRole = "userRole"
)

// PrincipalMiddleware extracts a bearer-token principal into the request
// context when one is presented. Requests without an Authorization header are
// served as anonymous; a header that is present but invalid is rejected.
// Handlers consume the principal via the Ctx* keys.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if !setPrincipal(c, authHeader) {
			return
		}
		c.Next()
	}
}

// AuthMiddleware requires a valid bearer-token principal.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		if !setPrincipal(c, authHeader) {
			return
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, authHeader string) bool {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Use Bearer <token>"})
		c.Abort()
		return false
	}

	claims, err := utils.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
		c.Abort()
		return false
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxUsername, claims.Username)
	c.Set(CtxUserRole, claims.Role)
	return true
}

// RoleAuthMiddleware checks that the principal's role is one of the allowed
// roles. AuthMiddleware must run first.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(CtxUserRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "User role not found in token claims. Ensure AuthMiddleware runs first."})
			c.Abort()
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User role in token is not a string"})
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource. Required roles: " + strings.Join(allowedRoles, ", ")})
		c.Abort()
	}
}
