package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/middleware"
	"github.com/Xyleee/api-devguidance/internal/models"
)

func RegisterMentorRoutes(rg *gin.RouterGroup) {
	mentors := rg.Group("/mentors")

	// Adviser applications are submitted before an account exists
	mentors.POST("/upload-resume", middleware.UploadRateLimit(), handlers.UploadResume)
	mentors.POST("/apply", middleware.AuthRateLimit(), handlers.ApplyForAdviserRole)

	requests := mentors.Group("/requests")
	requests.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdviser))
	{
		requests.GET("", handlers.GetMentorRequests)
		requests.PUT("/:requestId", handlers.RespondToRequest)
	}
}
