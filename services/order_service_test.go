package services

import (
	"context"
	"strings"
	"testing"

	"delivery-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func validCreateRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		RestaurantID:   primitive.NewObjectID().Hex(),
		RestaurantName: "Spice Garden",
		Items: []models.OrderItem{
			{Name: "Masala Dosa", Quantity: 1, Price: 120},
		},
		Pricing: models.Pricing{Subtotal: 120, DeliveryFee: 30, Tax: 6, Total: 156},
		Address: models.Address{Street: "12 MG Road", City: "Bengaluru"},
	}
}

func TestCreateOrder_PersistsAndNotifies(t *testing.T) {
	repo := &mockOrderRepo{}
	rooms := &mockRoomChannel{members: map[string]int{}}
	push := &mockPush{}
	notifier := NewNotifier(rooms, push, repo, &mockTokenRepo{tokens: map[string][]string{}}, &mockPaymentRepo{}, zap.NewNop())
	svc := NewOrderService(repo, notifier, zap.NewNop())

	req := validCreateRequest()
	order, err := svc.CreateOrder(context.Background(), primitive.NewObjectID().Hex(), req)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"))
	assert.Len(t, order.OrderID, 12)
	assert.Equal(t, models.StatusPending, order.Status)
	require.NotNil(t, repo.order)

	// The restaurant portal was told about the order even though nobody was
	// connected.
	events := rooms.eventsIn("restaurant:" + req.RestaurantID)
	assert.Contains(t, events, "new_order")
}

func TestCreateOrder_RequiresItems(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{}, nil, zap.NewNop())

	req := validCreateRequest()
	req.Items = nil

	_, err := svc.CreateOrder(context.Background(), primitive.NewObjectID().Hex(), req)
	assert.Error(t, err)
}

func TestCreateOrder_RejectsMalformedIDs(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{}, nil, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), "not-an-object-id", validCreateRequest())
	assert.Error(t, err)

	req := validCreateRequest()
	req.RestaurantID = "bogus"
	_, err = svc.CreateOrder(context.Background(), primitive.NewObjectID().Hex(), req)
	assert.Error(t, err)
}

func TestGetOrder_ByPublicID(t *testing.T) {
	repo := &mockOrderRepo{order: newTestOrder(models.StatusPending, "")}
	svc := NewOrderService(repo, nil, zap.NewNop())

	order, err := svc.GetOrder(context.Background(), repo.order.OrderID)

	require.NoError(t, err)
	assert.Equal(t, repo.order.OrderID, order.OrderID)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{}, nil, zap.NewNop())

	_, err := svc.GetOrder(context.Background(), "ORD-MISSING1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
