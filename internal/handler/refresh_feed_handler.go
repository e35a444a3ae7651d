package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wparames/honeymart/internal/events"
	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens in middleware before the upgrade
		return true
	},
}

// RefreshFeedHandler streams refresh-cycle events to the admin dashboard
// over a websocket.
type RefreshFeedHandler struct {
	subscriber events.Subscriber
}

func NewRefreshFeedHandler(subscriber events.Subscriber) *RefreshFeedHandler {
	return &RefreshFeedHandler{subscriber: subscriber}
}

// Stream upgrades the connection and forwards refresh events until the
// client disconnects.
// GET /api/admin/refreshes/live
func (h *RefreshFeedHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Websocket upgrade failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		return
	}
	defer conn.Close()

	eventChan, stop, err := h.subscriber.Subscribe()
	if err != nil {
		logger.Log.Error("Failed to subscribe to refresh events", zap.Error(err))
		return
	}
	defer stop()

	logger.Log.Info("Refresh feed client connected",
		zap.String("ip", c.ClientIP()),
	)

	// Drain reads so close frames are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				logger.Log.Debug("Refresh feed client gone", zap.Error(err))
				return
			}
		}
	}
}
