package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staylink/collab-api/middleware"
	"github.com/staylink/collab-api/services"
)

type ApplicationsHandler struct {
	DB      *sql.DB
	Service *services.CollaborationService
}

func NewApplicationsHandler(db *sql.DB) *ApplicationsHandler {
	return &ApplicationsHandler{
		DB:      db,
		Service: services.NewCollaborationService(db),
	}
}

// List splits the viewer's pending collaborations into received and sent
// queues. Accepting or declining a received item goes through the lifecycle
// endpoints; a successful decision drops it from the pending set on the next
// fetch.
func (h *ApplicationsHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	collabs, err := h.Service.ListForViewer(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	queues := services.SplitPending(collabs, middleware.GetUserRole(c))

	c.JSON(http.StatusOK, queues)
}
