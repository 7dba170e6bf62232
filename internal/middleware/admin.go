package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
)

// AdminOnly restricts access to admin accounts. Unlike RequireRoles it
// re-reads the account so a demoted admin loses access before their token
// expires.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			c.Abort()
			return
		}

		var admin models.Admin
		if err := database.DB.First(&admin, "id = ?", userID.(string)).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Admin access required"})
			c.Abort()
			return
		}

		if admin.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Admin access required"})
			c.Abort()
			return
		}

		c.Set("admin", &admin)
		c.Next()
	}
}
