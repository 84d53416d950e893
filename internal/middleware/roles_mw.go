package middleware

import (
	"net/http"

	"contractor_connect/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Invalid role in token"})
			return
		}

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to access this resource"})
	}
}

// SocietyMiddleware admits societies and admins
func SocietyMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleSociety, model.RoleAdmin)
}

// ContractorMiddleware admits contractors only; admins do not bid
func ContractorMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleContractor)
}
