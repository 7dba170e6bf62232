package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/middleware"
	"github.com/Xyleee/api-devguidance/internal/models"
)

func RegisterAdviserRoutes(rg *gin.RouterGroup) {
	advisers := rg.Group("/advisers")

	advisers.POST("/register", middleware.AuthRateLimit(), handlers.RegisterAdviser)
	advisers.POST("/login", middleware.AuthRateLimit(), handlers.LoginAdviser)

	// Public
	advisers.GET("/profile/:id", handlers.GetPublicAdviserProfile)

	own := advisers.Group("/profile")
	own.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdviser))
	{
		own.GET("", handlers.GetAdviserProfile)
		own.PUT("", handlers.UpdateAdviserProfile)
		own.PUT("/mentoring", handlers.UpdateMentoringSummary)
		own.POST("/upload-image", middleware.UploadRateLimit(), handlers.UploadAdviserProfileImage)
	}
}
