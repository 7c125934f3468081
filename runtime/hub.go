package runtime

import (
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/observability"
	"log/slog"
	"sync"
)

// Hub keeps at most one live connection per user.
// The lock only guards the map; connections are closed and written to outside of it.
type Hub struct {
	mu          sync.Mutex
	connections map[domain.UserID]contract.Connection
	log         *slog.Logger
	metrics     *observability.Metrics
}

func NewHub(log *slog.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		connections: make(map[domain.UserID]contract.Connection),
		log:         log,
		metrics:     metrics,
	}
}

// Register makes conn the live connection of user.
// A previous connection of the same user is superseded and closed.
func (h *Hub) Register(user domain.UserID, conn contract.Connection) {
	h.mu.Lock()
	previous, existed := h.connections[user]
	h.connections[user] = conn
	h.mu.Unlock()

	switch {
	case !existed:
		h.metrics.ConnectionOpened()
		h.log.Debug("Connection registered", "user_id", user)
	case previous != conn:
		previous.Close()
		h.metrics.ConnectionSuperseded()
		h.log.Info("Connection superseded", "user_id", user)
	}
}

// Unregister removes conn only if it is still the live connection of user,
// so the teardown of a superseded connection never evicts its replacement.
func (h *Hub) Unregister(user domain.UserID, conn contract.Connection) {
	h.mu.Lock()
	current, ok := h.connections[user]
	removed := ok && current == conn
	if removed {
		delete(h.connections, user)
	}
	h.mu.Unlock()

	if removed {
		h.metrics.ConnectionClosed()
		h.log.Debug("Connection unregistered", "user_id", user)
	}
}

// Push hands payload to the live connection of user.
// It returns false when the user is offline or the frame was dropped.
func (h *Hub) Push(user domain.UserID, payload []byte) bool {
	h.mu.Lock()
	conn, ok := h.connections[user]
	h.mu.Unlock()

	if !ok {
		h.metrics.PushResult("offline")
		return false
	}
	if !conn.Send(payload) {
		h.metrics.PushResult("dropped")
		h.log.Warn("Live frame dropped", "user_id", user)
		return false
	}
	h.metrics.PushResult("delivered")
	return true
}

// Len returns the number of users currently connected.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}
