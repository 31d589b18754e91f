package services

import (
	"context"
	"testing"

	"delivery-service/models"
	"delivery-service/sender"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type emittedEvent struct {
	room    string
	event   string
	payload any
}

type mockRoomChannel struct {
	members map[string]int
	emitted []emittedEvent
}

func (m *mockRoomChannel) Emit(room, event string, payload any) error {
	m.emitted = append(m.emitted, emittedEvent{room: room, event: event, payload: payload})
	return nil
}

func (m *mockRoomChannel) MembersOf(room string) int {
	return m.members[room]
}

func (m *mockRoomChannel) eventsIn(room string) []string {
	var events []string
	for _, e := range m.emitted {
		if e.room == room {
			events = append(events, e.event)
		}
	}
	return events
}

type sentPush struct {
	tokens []string
	msg    sender.Message
}

type mockPush struct {
	failedTokens []string
	sent         []sentPush
}

func (m *mockPush) Send(_ context.Context, tokens []string, msg sender.Message) (sender.Result, error) {
	m.sent = append(m.sent, sentPush{tokens: tokens, msg: msg})
	failed := 0
	for _, t := range tokens {
		for _, f := range m.failedTokens {
			if t == f {
				failed++
			}
		}
	}
	return sender.Result{
		SuccessCount: len(tokens) - failed,
		FailureCount: failed,
		FailedTokens: m.failedTokens,
	}, nil
}

type mockTokenRepo struct {
	tokens map[string][]string // accountType + ":" + accountID
	pruned map[string][]string
}

func (m *mockTokenRepo) AddToken(_ context.Context, accountID, accountType, token, _ string) error {
	key := accountType + ":" + accountID
	m.tokens[key] = append(m.tokens[key], token)
	return nil
}

func (m *mockTokenRepo) RemoveToken(_ context.Context, _, _, _ string) error { return nil }

func (m *mockTokenRepo) PruneInvalid(_ context.Context, accountID, accountType string, tokens []string) error {
	if m.pruned == nil {
		m.pruned = make(map[string][]string)
	}
	key := accountType + ":" + accountID
	m.pruned[key] = append(m.pruned[key], tokens...)
	return nil
}

func (m *mockTokenRepo) GetTokens(_ context.Context, accountID, accountType string) ([]string, error) {
	return m.tokens[accountType+":"+accountID], nil
}

func (m *mockTokenRepo) ListTokensByAudience(_ context.Context, _ string, _ *models.Zone) ([]string, error) {
	return nil, nil
}

type mockPaymentRepo struct {
	method string
	err    error
}

func (m *mockPaymentRepo) FindMethodByOrderID(_ context.Context, _ primitive.ObjectID) (string, error) {
	return m.method, m.err
}

func newNotifierOrder() *models.Order {
	return &models.Order{
		ID:           primitive.NewObjectID(),
		OrderID:      "ORD-AB12CD34",
		UserID:       primitive.NewObjectID(),
		RestaurantID: primitive.NewObjectID(),
		Status:       models.StatusPending,
		Items: []models.OrderItem{
			{Name: "Paneer Tikka", Quantity: 2, Price: 240},
		},
		Pricing: models.Pricing{Subtotal: 480, DeliveryFee: 40, Tax: 24, Total: 544},
	}
}

func newTestNotifier(order *models.Order, rooms *mockRoomChannel, push *mockPush, tokens *mockTokenRepo) *Notifier {
	repo := &mockOrderRepo{order: order}
	return NewNotifier(rooms, push, repo, tokens, &mockPaymentRepo{}, zap.NewNop())
}

func TestNotifyNewOrder_LiveRoomStillGetsPush(t *testing.T) {
	order := newNotifierOrder()
	restaurantRoom := "restaurant:" + order.RestaurantID.Hex()

	rooms := &mockRoomChannel{members: map[string]int{restaurantRoom: 2}}
	push := &mockPush{}
	tokens := &mockTokenRepo{tokens: map[string][]string{
		"restaurant:" + order.RestaurantID.Hex(): {"rtok-1", "rtok-2"},
	}}
	n := newTestNotifier(order, rooms, push, tokens)

	result := n.NotifyNewOrder(context.Background(), order, order.RestaurantID.Hex(), "")

	assert.True(t, result.SocketConnected)
	assert.Equal(t, order.RestaurantID.Hex(), result.RestaurantID)
	assert.Equal(t, []string{"new_order", "play_notification_sound"}, rooms.eventsIn(restaurantRoom))

	// Push is always attempted, even with the portal connected.
	require.Len(t, push.sent, 1)
	assert.Equal(t, []string{"rtok-1", "rtok-2"}, push.sent[0].tokens)
	assert.Equal(t, "🔔 New Order Received!", push.sent[0].msg.Title)
	assert.Contains(t, push.sent[0].msg.Body, order.OrderID)
}

func TestNotifyNewOrder_EmptyRoomReportsDisconnected(t *testing.T) {
	order := newNotifierOrder()
	rooms := &mockRoomChannel{members: map[string]int{}}
	push := &mockPush{}
	tokens := &mockTokenRepo{tokens: map[string][]string{
		"restaurant:" + order.RestaurantID.Hex(): {"rtok-1"},
	}}
	n := newTestNotifier(order, rooms, push, tokens)

	result := n.NotifyNewOrder(context.Background(), order, order.RestaurantID.Hex(), "")

	assert.False(t, result.SocketConnected)
	require.Len(t, push.sent, 1)
}

func TestNotifyNewOrder_OrderDocumentWinsOnRestaurantMismatch(t *testing.T) {
	order := newNotifierOrder()
	rooms := &mockRoomChannel{members: map[string]int{}}
	n := newTestNotifier(order, rooms, &mockPush{}, &mockTokenRepo{tokens: map[string][]string{}})

	result := n.NotifyNewOrder(context.Background(), order, primitive.NewObjectID().Hex(), "")

	assert.Equal(t, order.RestaurantID.Hex(), result.RestaurantID)
	require.NotEmpty(t, rooms.emitted)
	assert.Equal(t, "restaurant:"+order.RestaurantID.Hex(), rooms.emitted[0].room)
}

func TestNotifyNewOrder_ResolvesPaymentMethod(t *testing.T) {
	tests := []struct {
		name        string
		override    string
		orderMethod string
		recorded    string
		want        string
	}{
		{"override wins", "card", "upi", "cash", "card"},
		{"order method next", "", "upi", "", "upi"},
		{"recorded cash overrides stale order value", "", "upi", "cash", "cash"},
		{"default when nothing recorded", "", "", "", "razorpay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newNotifierOrder()
			order.Payment.Method = tt.orderMethod
			rooms := &mockRoomChannel{members: map[string]int{}}
			repo := &mockOrderRepo{order: order}
			n := NewNotifier(rooms, &mockPush{}, repo, &mockTokenRepo{tokens: map[string][]string{}},
				&mockPaymentRepo{method: tt.recorded}, zap.NewNop())

			n.NotifyNewOrder(context.Background(), order, "", "")

			require.NotEmpty(t, rooms.emitted)
			payload, ok := rooms.emitted[0].payload.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.want, payload["paymentMethod"])
		})
	}
}

func TestNotifyOrderStatusChange_EmitsToBothRooms(t *testing.T) {
	order := newNotifierOrder()
	order.Status = models.StatusOutForDelivery
	rooms := &mockRoomChannel{members: map[string]int{}}
	push := &mockPush{}
	tokens := &mockTokenRepo{tokens: map[string][]string{
		"user:" + order.UserID.Hex(): {"utok-1"},
	}}
	n := newTestNotifier(order, rooms, push, tokens)

	n.NotifyOrderStatusChange(context.Background(), order.ID.Hex(), models.StatusOutForDelivery)

	assert.Equal(t, []string{"order_status_update"}, rooms.eventsIn("restaurant:"+order.RestaurantID.Hex()))
	assert.Equal(t, []string{"order_status_update"}, rooms.eventsIn("order:"+order.OrderID))

	require.Len(t, push.sent, 1)
	assert.Equal(t, "Order Out for Delivery 🚴", push.sent[0].msg.Title)
}

func TestNotifyOrderStatusChange_DeliveredNotifiesRestaurantToo(t *testing.T) {
	order := newNotifierOrder()
	order.Status = models.StatusDelivered
	rooms := &mockRoomChannel{members: map[string]int{}}
	push := &mockPush{}
	tokens := &mockTokenRepo{tokens: map[string][]string{
		"user:" + order.UserID.Hex():             {"utok-1"},
		"restaurant:" + order.RestaurantID.Hex(): {"rtok-1"},
	}}
	n := newTestNotifier(order, rooms, push, tokens)

	n.NotifyOrderStatusChange(context.Background(), order.ID.Hex(), models.StatusDelivered)

	require.Len(t, push.sent, 2)
	assert.Equal(t, "Order Delivered! 🍽️", push.sent[0].msg.Title)
	assert.Equal(t, "Your food has arrived! Enjoy your meal 😋", push.sent[0].msg.Body)
	assert.Equal(t, []string{"utok-1"}, push.sent[0].tokens)
	assert.Equal(t, "✅ Order Delivered!", push.sent[1].msg.Title)
	assert.Equal(t, []string{"rtok-1"}, push.sent[1].tokens)
}

func TestNotifyOrderStatusChange_UnknownStatusGetsGenericCopy(t *testing.T) {
	order := newNotifierOrder()
	rooms := &mockRoomChannel{members: map[string]int{}}
	push := &mockPush{}
	tokens := &mockTokenRepo{tokens: map[string][]string{
		"user:" + order.UserID.Hex(): {"utok-1"},
	}}
	n := newTestNotifier(order, rooms, push, tokens)

	n.NotifyOrderStatusChange(context.Background(), order.ID.Hex(), models.StatusReachedPickup)

	require.Len(t, push.sent, 1)
	assert.Equal(t, "Order Update", push.sent[0].msg.Title)
	assert.Contains(t, push.sent[0].msg.Body, models.StatusReachedPickup)
}

func TestNotifyOrderStatusChange_PrunesFailedTokens(t *testing.T) {
	order := newNotifierOrder()
	rooms := &mockRoomChannel{members: map[string]int{}}
	push := &mockPush{failedTokens: []string{"utok-stale"}}
	tokens := &mockTokenRepo{tokens: map[string][]string{
		"user:" + order.UserID.Hex(): {"utok-live", "utok-stale"},
	}}
	n := newTestNotifier(order, rooms, push, tokens)

	n.NotifyOrderStatusChange(context.Background(), order.ID.Hex(), models.StatusCancelled)

	assert.Equal(t, []string{"utok-stale"}, tokens.pruned["user:"+order.UserID.Hex()])
}

func TestNotifyOrderStatusChange_NoTokensSkipsSend(t *testing.T) {
	order := newNotifierOrder()
	rooms := &mockRoomChannel{members: map[string]int{}}
	push := &mockPush{}
	n := newTestNotifier(order, rooms, push, &mockTokenRepo{tokens: map[string][]string{}})

	n.NotifyOrderStatusChange(context.Background(), order.ID.Hex(), models.StatusPreparing)

	assert.Empty(t, push.sent)
	// Room fan-out still happened.
	assert.NotEmpty(t, rooms.emitted)
}
