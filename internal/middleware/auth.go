package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

// AuthMiddleware validates the bearer token, rejects revoked tokens and
// checks the account still exists in the table for its role. It sets
// "userId", "role" and "claims" on the context.
func AuthMiddleware() gin.HandlerFunc {
	return authenticate(false)
}

// StreamAuthMiddleware is AuthMiddleware for the live message streams. It
// also takes the token from a "token" query parameter on GET, since
// EventSource and browser websockets cannot set headers.
func StreamAuthMiddleware() gin.HandlerFunc {
	return authenticate(true)
}

func authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFromRequest(c, allowQuery)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if database.IsTokenBlacklisted(claims.GetJTI()) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token has been revoked"})
			c.Abort()
			return
		}

		if !principalExists(models.Role(claims.Role), claims.UserID) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not found"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", models.Role(claims.Role))
		c.Set("claims", claims)

		c.Next()
	}
}

// tokenFromRequest reads the bearer token, falling back to the "token"
// query parameter on GET when allowQuery is set.
func tokenFromRequest(c *gin.Context, allowQuery bool) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if allowQuery && c.Request.Method == http.MethodGet {
			if token := c.Query("token"); token != "" {
				return token, true
			}
		}
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func principalExists(role models.Role, id string) bool {
	var model interface{}
	switch role {
	case models.RoleStudent:
		model = &models.Student{}
	case models.RoleAdviser:
		model = &models.Adviser{}
	case models.RoleAdmin:
		model = &models.Admin{}
	default:
		return false
	}

	var count int64
	if err := database.DB.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// RequireRoles only lets principals with one of roles through. Must run
// after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			c.Abort()
			return
		}

		for _, r := range roles {
			if role.(models.Role) == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied for this role"})
		c.Abort()
	}
}

// CurrentParticipant returns the authenticated principal as a conversation
// participant. Admins are not participants.
func CurrentParticipant(c *gin.Context) (models.Participant, bool) {
	role, _ := c.Get("role")
	r, _ := role.(models.Role)
	p, err := models.ParticipantFromRole(r, c.GetString("userId"))
	if err != nil {
		return models.Participant{}, false
	}
	return p, true
}
