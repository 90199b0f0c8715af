package middleware

import (
	"strings"

	"campus-availability-server/internal/config"
	"campus-availability-server/internal/models"
	"campus-availability-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	facultyIDKey = "facultyID"
	roleKey      = "facultyRole"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		c.Set(facultyIDKey, claims.FacultyID)
		c.Set(roleKey, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRoleFromContext(c)
		if !ok {
			utils.InternalServerError(c, "Role not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetFacultyIDFromContext returns the authenticated account id.
func GetFacultyIDFromContext(c *gin.Context) (string, bool) {
	id, exists := c.Get(facultyIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok
}

// GetRoleFromContext returns the authenticated account role.
func GetRoleFromContext(c *gin.Context) (models.Role, bool) {
	role, exists := c.Get(roleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(models.Role)
	return r, ok
}

// CanActFor reports whether the caller is the given faculty member or an admin.
func CanActFor(c *gin.Context, facultyID string) bool {
	role, _ := GetRoleFromContext(c)
	if role == models.RoleAdmin {
		return true
	}
	id, ok := GetFacultyIDFromContext(c)
	return ok && id == facultyID
}
