package handler

import (
	"net/http"
	"time"

	"helpdesk/backend/internal/detector"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const logPollInterval = 2 * time.Second

// DetectorLogStream upgrades the connection and tails the detector log
// into it, sending only the bytes appended since the last poll. Role
// gating happens in the middleware chain; the cookie token rides along
// on the upgrade request.
func (h *Handler) DetectorLogStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}
	defer conn.Close()

	// Drain reads so we notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(logPollInterval)
	defer ticker.Stop()

	sent := 0
	for {
		logs := h.Detector.Logs()
		if logs != detector.NoLogsSentinel && len(logs) > sent {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(logs[sent:])); err != nil {
				return
			}
			sent = len(logs)
		}

		select {
		case <-closed:
			return
		case <-ticker.C:
		}
	}
}
