package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/config"
)

// AllowedOrigins is the browser origin allow-list shared by CORS and the
// websocket upgrader.
func AllowedOrigins() []string {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if config.AppConfig != nil && config.AppConfig.FrontendURL != "" {
		origins = append([]string{config.AppConfig.FrontendURL}, origins...)
	}
	return origins
}

func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
