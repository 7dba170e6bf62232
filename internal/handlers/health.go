package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/database"
)

// Health reports database and Redis status plus the number of open live
// connections.
func Health(c *gin.Context) {
	dbStatus := "ok"
	redisStatus := "ok"

	if err := database.Ping(); err != nil {
		dbStatus = "error"
	}

	if database.Redis != nil {
		if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
			redisStatus = "error"
		}
	} else {
		redisStatus = "not configured"
	}

	status := "ok"
	if dbStatus != "ok" || redisStatus == "error" {
		status = "degraded"
	}

	live := 0
	if liveRegistry != nil {
		live = len(liveRegistry.ListConnected())
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"message": "DevGuidance API is running",
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"liveConnections": live,
	})
}
