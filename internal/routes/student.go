package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/middleware"
	"github.com/Xyleee/api-devguidance/internal/models"
)

func RegisterStudentRoutes(rg *gin.RouterGroup) {
	students := rg.Group("/students")

	students.POST("/register", middleware.AuthRateLimit(), handlers.RegisterStudent)
	students.POST("/login", middleware.AuthRateLimit(), handlers.LoginStudent)

	protected := students.Group("")
	protected.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleStudent))
	{
		protected.GET("/mentors", handlers.GetAvailableMentors)
		protected.POST("/request-mentorship", handlers.RequestMentorship)
		protected.GET("/mentorship-requests", handlers.GetStudentRequests)
	}
}
