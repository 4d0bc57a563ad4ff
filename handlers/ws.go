package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/staylink/collab-api/utils"
)

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so cloud proxies don't drop idle negotiation threads
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		collabID, _ := s.Get("collaboration_id")
		utils.SafeDebug("✅ Client connected to collaboration: %v", collabID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		collabID, _ := s.Get("collaboration_id")
		utils.SafeDebug("🔌 Client disconnected from collaboration: %v", collabID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		utils.SafeError("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and pins the session to one collaboration via
// the session keys, so concurrent upgrades never cross-tag each other.
func (h *WSHandler) HandleWS(c *gin.Context) {
	keys := map[string]interface{}{"collaboration_id": c.Param("id")}

	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		utils.SafeError("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every client watching this collaboration to
// refetch. Delivery is best-effort.
func (h *WSHandler) BroadcastUpdate(collabID string, updateType string, actorID string) {
	msg := []byte(`{"type": "` + updateType + `", "collaboration_id": "` + collabID + `", "actor": "` + actorID + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("collaboration_id")
		return exists && id == collabID
	})

	if err != nil {
		utils.SafeWarn("⚠️ Error broadcasting to collaboration %s: %v", collabID, err)
	}
}
