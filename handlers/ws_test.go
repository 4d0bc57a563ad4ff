package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srvURL, collabID string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srvURL, "http") + "/ws/collaborations/" + collabID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesOnlyWatchedCollaboration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ws := NewWSHandler()

	router := gin.New()
	router.GET("/ws/collaborations/:id", ws.HandleWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	watcher := dialWS(t, srv.URL, "collab-1")
	bystander := dialWS(t, srv.URL, "collab-2")

	// Give melody a moment to register both sessions.
	time.Sleep(100 * time.Millisecond)

	ws.BroadcastUpdate("collab-1", "status_update", "user-1")

	require.NoError(t, watcher.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := watcher.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"collaboration_id": "collab-1"`)
	assert.Contains(t, string(msg), `"type": "status_update"`)
	assert.Contains(t, string(msg), `"actor": "user-1"`)

	require.NoError(t, bystander.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = bystander.ReadMessage()
	assert.Error(t, err, "sessions pinned to another collaboration must not receive the broadcast")
}
