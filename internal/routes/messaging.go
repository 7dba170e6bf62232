package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/middleware"
	"github.com/Xyleee/api-devguidance/internal/models"
)

func RegisterMessagingRoutes(rg *gin.RouterGroup) {
	participants := middleware.RequireRoles(models.RoleStudent, models.RoleAdviser)

	streams := rg.Group("/messages")
	streams.Use(middleware.StreamAuthMiddleware(), participants)
	{
		streams.GET("/events/:userId", handlers.StreamEvents)
		streams.GET("/ws", handlers.ServeWebSocket)
	}

	messages := rg.Group("/messages")
	messages.Use(middleware.AuthMiddleware(), participants)
	{
		messages.POST("/send", middleware.MessageRateLimit(), handlers.SendMessage)
		messages.GET("/contacts", handlers.GetContacts)
		messages.GET("/conversations/:partnerId", handlers.GetConversation)
	}
}
