package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staylink/collab-api/middleware"
	"github.com/staylink/collab-api/services"
)

type ConversationsHandler struct {
	DB      *sql.DB
	Threads *services.ThreadService
}

func NewConversationsHandler(db *sql.DB) *ConversationsHandler {
	return &ConversationsHandler{
		DB:      db,
		Threads: services.NewThreadService(db),
	}
}

// List returns the viewer's conversation summaries. ?archived=true selects
// threads whose collaboration reached completed, cancelled or rejected.
func (h *ConversationsHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	archived := c.Query("archived") == "true"

	conversations, err := h.Threads.ListConversations(c.Request.Context(), userID, middleware.GetUserRole(c), archived)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}
