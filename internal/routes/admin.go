package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/middleware"
)

func RegisterAdminRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/admin")
	public.Use(middleware.AuthRateLimit())
	public.POST("/register", handlers.RegisterAdmin)
	public.POST("/login", handlers.LoginAdmin)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.GET("/verify", handlers.VerifyAdmin)

	// Adviser applications
	admin.GET("/adviser-applications", handlers.ListAdviserApplications)
	admin.GET("/adviser-applications/:id", handlers.GetAdviserApplication)
	admin.PUT("/adviser-applications/:id/decision", handlers.DecideAdviserApplication)

	// Live connection diagnostics
	admin.GET("/connected", handlers.ListConnected)
}
