package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// RoomChannel is the surface the notification orchestrator depends on; the
// orchestrator receives a handle at construction instead of reaching into
// process-wide state.
type RoomChannel interface {
	Emit(room, event string, payload any) error
	MembersOf(room string) int
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks which connected sockets belong to which logical room and fans
// events out to them. Membership is ephemeral; it is rebuilt as clients
// reconnect and rejoin.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach(c, room)
}

// removeClient drops the client from every room it joined. Called once when
// the underlying connection closes.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range c.rooms {
		h.detach(c, room)
	}
}

// detach must be called with h.mu held.
func (h *Hub) detach(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// Emit delivers the event to every socket currently in the room. An empty
// room is a silent no-op.
func (h *Hub) Emit(room, event string, payload any) error {
	data, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop rather than stall the emit path.
			h.logger.Warn("dropping event for slow socket", zap.String("room", room), zap.String("event", event))
		}
	}
	return nil
}

// MembersOf reports the current connection count for a room. Best-effort
// presence only: membership can change between the check and a later emit.
func (h *Hub) MembersOf(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
