package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/middleware"
	"github.com/Xyleee/api-devguidance/internal/models"
)

func RegisterProjectRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleStudent))
	{
		projects.POST("", handlers.CreateProject)
		projects.GET("/student", handlers.GetStudentProjects)
		projects.GET("/:id", handlers.GetProject)
		projects.PUT("/:id", handlers.UpdateProject)
	}
}
