package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/models"
	"github.com/Xyleee/api-devguidance/pkg/logger"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func issueToken(c *gin.Context, userID string, role models.Role) (string, bool) {
	token, err := utils.GenerateToken(userID, string(role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate token"})
		return "", false
	}
	return token, true
}

// Logout revokes the caller's token until it would have expired.
func Logout(c *gin.Context) {
	claimsInterface, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Already logged out"})
		return
	}

	claims, ok := claimsInterface.(*utils.Claims)
	if !ok || claims == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Already logged out"})
		return
	}

	jti := claims.GetJTI()
	ttl := claims.RemainingTTL()
	if jti != "" && ttl > 0 {
		if err := database.BlacklistToken(jti, ttl); err != nil {
			// Still report success: the client discards the token either way
			logger.Error().Err(err).Str("jti", jti).Msg("Failed to blacklist token")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully logged out"})
}
