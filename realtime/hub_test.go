package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(h *Hub) *Client {
	return &Client{
		hub:   h,
		send:  make(chan []byte, 8),
		rooms: make(map[string]struct{}),
	}
}

func TestHub_JoinAndEmit(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h)
	h.join(c, "restaurant:abc")

	require.NoError(t, h.Emit("restaurant:abc", "new_order", map[string]any{"orderId": "ORD-1"}))

	select {
	case raw := <-c.send:
		var env struct {
			Event string         `json:"event"`
			Data  map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, "new_order", env.Event)
		assert.Equal(t, "ORD-1", env.Data["orderId"])
	default:
		t.Fatal("expected event on client channel")
	}
}

func TestHub_EmitToEmptyRoomIsNoOp(t *testing.T) {
	h := NewHub(zap.NewNop())

	assert.NoError(t, h.Emit("restaurant:nobody", "new_order", nil))
	assert.Zero(t, h.MembersOf("restaurant:nobody"))
}

func TestHub_EmitOnlyReachesRoomMembers(t *testing.T) {
	h := NewHub(zap.NewNop())
	in := newTestClient(h)
	out := newTestClient(h)
	h.join(in, "order:ORD-1")
	h.join(out, "order:ORD-2")

	require.NoError(t, h.Emit("order:ORD-1", "order_status_update", nil))

	assert.Len(t, in.send, 1)
	assert.Empty(t, out.send)
}

func TestHub_MembersOfTracksJoinLeave(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := newTestClient(h)
	b := newTestClient(h)

	h.join(a, "restaurant:abc")
	h.join(b, "restaurant:abc")
	assert.Equal(t, 2, h.MembersOf("restaurant:abc"))

	h.leave(a, "restaurant:abc")
	assert.Equal(t, 1, h.MembersOf("restaurant:abc"))

	h.removeClient(b)
	assert.Zero(t, h.MembersOf("restaurant:abc"))
}

func TestHub_RemoveClientClearsAllRooms(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h)
	h.join(c, "restaurant:abc")
	h.join(c, "order:ORD-1")

	h.removeClient(c)

	assert.Zero(t, h.MembersOf("restaurant:abc"))
	assert.Zero(t, h.MembersOf("order:ORD-1"))
	assert.Empty(t, c.rooms)
}

func TestHub_SlowConsumerDoesNotBlockEmit(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := &Client{hub: h, send: make(chan []byte), rooms: make(map[string]struct{})}
	h.join(c, "restaurant:abc")

	// Unbuffered channel with no reader: the emit must return immediately.
	assert.NoError(t, h.Emit("restaurant:abc", "new_order", nil))
}
