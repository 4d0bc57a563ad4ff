package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/staylink/collab-api/middleware"
	"github.com/staylink/collab-api/models"
	"github.com/staylink/collab-api/services"
)

type MessagesHandler struct {
	DB      *sql.DB
	Threads *services.ThreadService
	WS      *WSHandler
}

func NewMessagesHandler(db *sql.DB, ws *WSHandler) *MessagesHandler {
	return &MessagesHandler{
		DB:      db,
		Threads: services.NewThreadService(db),
		WS:      ws,
	}
}

// List returns a reverse-chronological message page. ?before=<message id>
// loads older history; ?limit= caps the page size.
func (h *MessagesHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	limit, _ := strconv.Atoi(c.Query("limit"))

	page, err := h.Threads.ListMessages(c.Request.Context(), collabID, userID, c.Query("before"), limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Post appends a text or image message to the thread. Never touches
// collaboration status.
func (h *MessagesHandler) Post(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	var req models.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.Threads.PostMessage(c.Request.Context(), collabID, userID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.WS.BroadcastUpdate(collabID, "new_message", userID)

	c.JSON(http.StatusCreated, message)
}

// MarkRead zeroes the viewer's unread counter.
func (h *MessagesHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	if err := h.Threads.MarkRead(c.Request.Context(), collabID, userID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked as read"})
}
