package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/middleware"
)

// NewRouter builds the HTTP surface. Messaging handlers must be initialised
// with handlers.InitMessaging first.
func NewRouter() *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")
	api.Use(middleware.GeneralRateLimit())
	{
		RegisterStudentRoutes(api)
		RegisterAdviserRoutes(api)
		RegisterMentorRoutes(api)
		RegisterProjectRoutes(api)
		RegisterAdminRoutes(api)
		RegisterMessagingRoutes(api)

		api.POST("/auth/logout", middleware.AuthMiddleware(), handlers.Logout)
	}

	r.GET("/health", handlers.Health)

	return r
}
