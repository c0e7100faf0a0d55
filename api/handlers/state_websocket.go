package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/video-downloader-go/internal/app"
	"github.com/yourusername/video-downloader-go/internal/domain"
)

const pingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the UI is served from the same local server
	},
}

// StateWebSocketHandler pushes form state snapshots to WebSocket clients
type StateWebSocketHandler struct {
	controller *app.FormController
	logger     *zap.Logger
}

// NewStateWebSocketHandler creates a new WebSocket handler
func NewStateWebSocketHandler(controller *app.FormController, log *zap.Logger) *StateWebSocketHandler {
	return &StateWebSocketHandler{
		controller: controller,
		logger:     log,
	}
}

// latestState is a one-slot mailbox: a slow client skips intermediate
// snapshots but always receives the newest one
type latestState struct {
	mu sync.Mutex
	ch chan domain.FormState
}

func (l *latestState) put(s domain.FormState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.ch:
	default:
	}
	l.ch <- s
}

// HandleWebSocket handles GET /api/v1/ws
func (h *StateWebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("WebSocket client connected", zap.String("remote_addr", c.Request.RemoteAddr))

	mailbox := &latestState{ch: make(chan domain.FormState, 1)}
	unsubscribe := h.controller.Subscribe(mailbox.put)
	defer unsubscribe()

	if err := conn.WriteJSON(h.controller.State()); err != nil {
		h.logger.Debug("Failed to send initial state", zap.Error(err))
		return
	}

	// Read messages from client so close frames are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case state := <-mailbox.ch:
			if err := conn.WriteJSON(state); err != nil {
				h.logger.Debug("Failed to send state", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			h.logger.Debug("WebSocket client disconnected", zap.String("remote_addr", c.Request.RemoteAddr))
			return
		}
	}
}
