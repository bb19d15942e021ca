package notification

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans notifications out to the websocket connections of each user.
// A user may hold several connections (multiple tabs).
type Hub struct {
	mu     sync.RWMutex
	conns  map[int64]map[*websocket.Conn]bool
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[int64]map[*websocket.Conn]bool),
		logger: logger,
	}
}

func (h *Hub) Register(userNo int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userNo] == nil {
		h.conns[userNo] = make(map[*websocket.Conn]bool)
	}
	h.conns[userNo][conn] = true
}

func (h *Hub) Unregister(userNo int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userNo], conn)
	if len(h.conns[userNo]) == 0 {
		delete(h.conns, userNo)
	}
}

// Push sends a notification to every live connection of the user. Write
// failures are logged and the connection is left for the read loop to reap.
func (h *Hub) Push(userNo int64, notification *Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		h.logger.Warn("marshal notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns[userNo] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("websocket write failed",
				zap.Int64("userNo", userNo), zap.Error(err))
		}
	}
}
