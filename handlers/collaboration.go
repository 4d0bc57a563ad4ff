package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staylink/collab-api/middleware"
	"github.com/staylink/collab-api/models"
	"github.com/staylink/collab-api/services"
	"github.com/staylink/collab-api/utils"
)

type CollaborationHandler struct {
	DB       *sql.DB
	Service  *services.CollaborationService
	WS       *WSHandler
	Notifier *services.Notifier
}

func NewCollaborationHandler(db *sql.DB, ws *WSHandler) *CollaborationHandler {
	return &CollaborationHandler{
		DB:       db,
		Service:  services.NewCollaborationService(db),
		WS:       ws,
		Notifier: services.NewNotifier(),
	}
}

// List returns the viewer's collaborations, run through the filter/sort
// engine: ?status=all|pending|accepted|rejected, ?q=<counterparty search>,
// ?sort=newest|a-z.
func (h *CollaborationHandler) List(c *gin.Context) {
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

	filtered := services.ApplyFilters(collabs, services.FilterConfig{
		Status:     c.DefaultQuery("status", services.FilterAll),
		Query:      c.Query("q"),
		Sort:       c.DefaultQuery("sort", services.SortNewest),
		ViewerRole: middleware.GetUserRole(c),
	})

	c.JSON(http.StatusOK, gin.H{
		"collaborations": filtered,
		"total":          len(filtered),
	})
}

// Get returns one collaboration with its flattened deliverable checklist and
// progress.
func (h *CollaborationHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	collab, err := h.Service.GetByID(c.Request.Context(), collabID, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collaboration": collab,
		"deliverables":  services.FlattenDeliverables(collab.PlatformDeliverables),
		"progress":      services.DeliverableProgress(collab.PlatformDeliverables),
	})
}

// Create submits a new collaboration request to a partner.
func (h *CollaborationHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	userRole := middleware.GetUserRole(c)

	var req models.CreateCollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collab, err := h.Service.Create(c.Request.Context(), userID, userRole, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.notifyRequested(collab, userRole)

	c.JSON(http.StatusCreated, collab)
}

// Respond accepts or declines a pending or negotiating collaboration.
func (h *CollaborationHandler) Respond(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	var req models.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collab, err := h.Service.Respond(c.Request.Context(), collabID, userID, req.Decision)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.WS.BroadcastUpdate(collabID, "status_update", userID)
	h.notifyDecision(collab, userID, req.Decision)

	c.JSON(http.StatusOK, collab)
}

// CounterOffer replaces the offer terms and restarts bilateral consent.
func (h *CollaborationHandler) CounterOffer(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	var req models.CounterOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collab, err := h.Service.ProposeCounterOffer(c.Request.Context(), collabID, userID, req.Terms)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.WS.BroadcastUpdate(collabID, "counter_offer", userID)

	c.JSON(http.StatusOK, collab)
}

// UpdateStatus moves an accepted collaboration to completed or cancelled.
func (h *CollaborationHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collab, err := h.Service.UpdateStatus(c.Request.Context(), collabID, userID, req.Status, req.Incomplete)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.WS.BroadcastUpdate(collabID, "status_update", userID)

	c.JSON(http.StatusOK, collab)
}

// ToggleDeliverable flips one checklist item on an accepted collaboration.
func (h *CollaborationHandler) ToggleDeliverable(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")
	deliverableID := c.Param("deliverable_id")

	collab, err := h.Service.ToggleDeliverable(c.Request.Context(), collabID, deliverableID, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.WS.BroadcastUpdate(collabID, "deliverables_update", userID)

	c.JSON(http.StatusOK, gin.H{
		"collaboration": collab,
		"progress":      services.DeliverableProgress(collab.PlatformDeliverables),
	})
}

// Rate records the viewer's post-completion rating flag.
func (h *CollaborationHandler) Rate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	if err := h.Service.Rate(c.Request.Context(), collabID, userID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating recorded"})
}

// ============================================================================
// NOTIFICATIONS (best-effort, never fail the request)
// ============================================================================

func (h *CollaborationHandler) notifyRequested(collab *models.Collaboration, initiatorRole string) {
	recipientID := collab.PartyIDFor(models.RoleHotel)
	partner := collab.Counterparty(models.RoleHotel)
	if initiatorRole == models.RoleHotel {
		recipientID = collab.PartyIDFor(models.RoleCreator)
		partner = collab.Counterparty(models.RoleCreator)
	}

	var email string
	if err := h.DB.QueryRow(`SELECT email FROM users WHERE id = $1`, recipientID).Scan(&email); err != nil {
		return
	}

	go func() {
		if err := h.Notifier.CollaborationRequested(email, partner.Name, collab.CollaborationType, collab.ID); err != nil {
			log.Printf("⚠️ Failed to notify %s about new request: %v", utils.MaskEmail(email), err)
		}
	}()
}

func (h *CollaborationHandler) notifyDecision(collab *models.Collaboration, deciderID, decision string) {
	recipientID := collab.HotelID
	deciderName := collab.Creator.Name
	if deciderID == collab.HotelID {
		recipientID = collab.CreatorID
		deciderName = collab.Hotel.Name
	}

	var email string
	if err := h.DB.QueryRow(`SELECT email FROM users WHERE id = $1`, recipientID).Scan(&email); err != nil {
		return
	}

	go func() {
		if err := h.Notifier.DecisionMade(email, deciderName, decision, collab.ID); err != nil {
			log.Printf("⚠️ Failed to notify %s about decision: %v", utils.MaskEmail(email), err)
		}
	}()
}
