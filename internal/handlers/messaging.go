package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Xyleee/api-devguidance/internal/middleware"
	"github.com/Xyleee/api-devguidance/internal/realtime"
	"github.com/Xyleee/api-devguidance/internal/services"
	"github.com/Xyleee/api-devguidance/pkg/logger"
)

const wsPongWait = 60 * time.Second

var (
	liveRegistry  *realtime.Registry
	conversations *services.ConversationService
	wsUpgrader    *websocket.Upgrader
)

// InitMessaging wires the live registry and conversation service used by
// the messaging handlers.
func InitMessaging(registry *realtime.Registry, svc *services.ConversationService) {
	liveRegistry = registry
	conversations = svc
	wsUpgrader = realtime.NewUpgrader(middleware.AllowedOrigins())
}

// notify pushes a best-effort live event. Delivery failures are handled
// inside the registry.
func notify(userID string, event realtime.Event) bool {
	if liveRegistry == nil {
		return false
	}
	return liveRegistry.Push(userID, event)
}

// StreamEvents holds an SSE stream open for the caller until they
// disconnect or open a newer stream.
func StreamEvents(c *gin.Context) {
	userID := c.GetString("userId")
	if c.Param("userId") != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not authorized to access this stream"})
		return
	}

	ch, err := realtime.NewSSEChannel(c.Writer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Streaming is not supported"})
		return
	}

	conn, err := liveRegistry.Register(userID, ch)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to open message stream")
		return
	}

	select {
	case <-c.Request.Context().Done():
	case <-conn.Done():
	}
	liveRegistry.Release(conn)
}

// ServeWebSocket is the websocket alternative to StreamEvents. The socket
// only carries server pushes; messages are sent over HTTP.
func ServeWebSocket(c *gin.Context) {
	userID := c.GetString("userId")

	ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Websocket upgrade failed")
		return
	}

	ch := realtime.NewWSChannel(ws)
	conn, err := liveRegistry.Register(userID, ch)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to register websocket")
		_ = ws.Close()
		return
	}

	ch.Serve(liveRegistry, conn, wsPongWait)
}

type SendMessageInput struct {
	ReceiverID string `json:"receiverId" form:"receiverId" binding:"required"`
	Content    string `json:"content" form:"content"`
}

// SendMessage accepts JSON or multipart (with an optional "file" part).
func SendMessage(c *gin.Context) {
	sender, ok := middleware.CurrentParticipant(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only students and advisers can send messages"})
		return
	}

	var input SendMessageInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Receiver ID is required"})
			return
		}
	} else if !bindJSON(c, &input) {
		return
	}

	fileRef := ""
	if header := formFile(c, "file"); header != nil {
		// Check the relationship before storing anything
		if _, err := conversations.Gate().Authorize(c.Request.Context(), sender.ID(), input.ReceiverID); err != nil {
			respondError(c, err)
			return
		}
		url, err := storeUpload(c, header, messageAttachmentRule)
		if err != nil {
			respondError(c, err)
			return
		}
		fileRef = url
	}

	msg, delivered, err := conversations.Send(c.Request.Context(), sender, input.ReceiverID, input.Content, fileRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"delivered": delivered,
		"message":   "Message sent successfully",
		"data":      msg,
	})
}

func GetContacts(c *gin.Context) {
	user, ok := middleware.CurrentParticipant(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only students and advisers have contacts"})
		return
	}

	contacts, err := conversations.ListContacts(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(contacts), "data": contacts})
}

func GetConversation(c *gin.Context) {
	page := queryInt(c, "page", services.DefaultPage)
	limit := queryInt(c, "limit", services.DefaultPageSize)

	result, err := conversations.GetConversation(c.Request.Context(), c.GetString("userId"), c.Param("partnerId"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       result.Count,
		"total":       result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"data":        result.Messages,
	})
}

// ListConnected reports which users currently hold a live connection.
func ListConnected(c *gin.Context) {
	ids := liveRegistry.ListConnected()
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(ids), "data": ids})
}
