package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/staylink/collab-api/handlers"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupCollaborationRoutes sets up the protected collaboration lifecycle
// routes.
func SetupCollaborationRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewCollaborationHandler(db, ws)

	rg.GET("/collaborations", h.List)
	rg.POST("/collaborations", h.Create)
	rg.GET("/collaborations/:id", h.Get)
	rg.POST("/collaborations/:id/respond", h.Respond)
	rg.POST("/collaborations/:id/counter-offer", h.CounterOffer)
	rg.PUT("/collaborations/:id/status", h.UpdateStatus)
	rg.POST("/collaborations/:id/deliverables/:deliverable_id/toggle", h.ToggleDeliverable)
	rg.POST("/collaborations/:id/rate", h.Rate)

	applications := handlers.NewApplicationsHandler(db)
	rg.GET("/applications", applications.List)
}

// SetupConversationRoutes sets up the protected messaging routes.
func SetupConversationRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	conversations := handlers.NewConversationsHandler(db)
	messages := handlers.NewMessagesHandler(db, ws)

	rg.GET("/conversations", conversations.List)
	rg.GET("/collaborations/:id/messages", messages.List)
	rg.POST("/collaborations/:id/messages", messages.Post)
	rg.POST("/collaborations/:id/messages/read", messages.MarkRead)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}
