package services

import (
	"context"
	"fmt"
	"time"

	"delivery-service/models"
	"delivery-service/realtime"
	"delivery-service/repository"
	"delivery-service/sender"

	"go.uber.org/zap"
)

const defaultEstimatedDeliveryMinutes = 30

// statusCopy holds the customer-facing push text per order status; any other
// status falls through to a generic update.
type statusCopy struct {
	title string
	body  string
}

var statusCopies = map[string]statusCopy{
	models.StatusDelivered: {
		title: "Order Delivered! 🍽️",
		body:  "Your food has arrived! Enjoy your meal 😋",
	},
	models.StatusOutForDelivery: {
		title: "Order Out for Delivery 🚴",
		body:  "Our delivery partner is on the way!",
	},
	models.StatusCancelled: {
		title: "Order Cancelled ❌",
		body:  "Your order has been cancelled.",
	},
	models.StatusPreparing: {
		title: "Order Accepted 🍳",
		body:  "The restaurant is preparing your food.",
	},
	models.StatusReady: {
		title: "Order Ready 🥡",
		body:  "Your food is ready for pickup.",
	},
}

// NewOrderResult tells the caller whether a live room delivery happened. It
// is informational only; a missing live connection must never fail or retry
// the order creation that triggered the notification.
type NewOrderResult struct {
	OrderID         string `json:"orderId"`
	RestaurantID    string `json:"restaurantId"`
	SocketConnected bool   `json:"socketConnected"`
}

// Notifier is the single place a status-changing operation reports its
// result for fan-out across the room and push channels. The channels are
// dispatched independently: either may fail without affecting the other, and
// neither failure reaches the caller.
type Notifier struct {
	rooms    realtime.RoomChannel
	push     sender.PushSender
	orders   repository.OrderRepository
	tokens   repository.TokenRepository
	payments repository.PaymentRepository
	logger   *zap.Logger
}

func NewNotifier(
	rooms realtime.RoomChannel,
	push sender.PushSender,
	orders repository.OrderRepository,
	tokens repository.TokenRepository,
	payments repository.PaymentRepository,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		rooms:    rooms,
		push:     push,
		orders:   orders,
		tokens:   tokens,
		payments: payments,
		logger:   logger,
	}
}

// NotifyNewOrder announces a freshly created order to its restaurant: a room
// event for connected portals plus, regardless of live membership, a push to
// the restaurant's registered tokens.
func (n *Notifier) NotifyNewOrder(ctx context.Context, order *models.Order, restaurantID string, paymentMethodOverride string) NewOrderResult {
	// The order document is authoritative about its restaurant.
	if restaurantID != "" && realtime.RestaurantRoom(restaurantID) != realtime.RestaurantRoom(order.RestaurantID.Hex()) {
		n.logger.Error("restaurant id mismatch in new-order notification",
			zap.String("provided", restaurantID),
			zap.String("order_restaurant", order.RestaurantID.Hex()),
			zap.String("order_id", order.OrderID),
		)
	}
	restaurantID = order.RestaurantID.Hex()

	payload := n.newOrderPayload(ctx, order, paymentMethodOverride)
	room := realtime.RestaurantRoom(restaurantID)
	live := n.rooms.MembersOf(room) > 0

	if err := n.rooms.Emit(room, "new_order", payload); err != nil {
		n.logger.Warn("new_order emit failed", zap.String("room", room), zap.Error(err))
	}
	if err := n.rooms.Emit(room, "play_notification_sound", map[string]any{
		"type":    "new_order",
		"orderId": order.OrderID,
		"message": fmt.Sprintf("New order received: %s", order.OrderID),
	}); err != nil {
		n.logger.Warn("play_notification_sound emit failed", zap.String("room", room), zap.Error(err))
	}

	if !live {
		n.logger.Warn("no active socket connection for restaurant, relying on push",
			zap.String("restaurant_id", restaurantID),
			zap.String("order_id", order.OrderID),
		)
	}

	n.pushTo(ctx, restaurantID, models.AccountRestaurant, sender.Message{
		Title: "🔔 New Order Received!",
		Body:  fmt.Sprintf("Order #%s for ₹%.2f", order.OrderID, order.Pricing.Total),
		Data: map[string]string{
			"orderId":      order.OrderID,
			"orderMongoId": order.ID.Hex(),
			"type":         "new_order",
			"click_action": "/orders",
		},
	})

	return NewOrderResult{
		OrderID:         order.OrderID,
		RestaurantID:    restaurantID,
		SocketConnected: live,
	}
}

// NotifyOrderStatusChange fans a status transition out to the restaurant
// room, the order-tracking room, and the customer's push tokens.
func (n *Notifier) NotifyOrderStatusChange(ctx context.Context, orderID, status string) {
	order, err := n.orders.FindByAnyID(ctx, orderID)
	if err != nil {
		n.logger.Warn("order not found for status notification",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	update := map[string]any{
		"orderId":         order.OrderID,
		"orderMongoId":    order.ID.Hex(),
		"status":          status,
		"updatedAt":       time.Now().UTC(),
		"acceptedByAdmin": order.AcceptedByAdmin,
		"deliveryState":   order.DeliveryState,
	}
	if order.Tracking != nil {
		update["tracking"] = order.Tracking
	}

	restaurantRoom := realtime.RestaurantRoom(order.RestaurantID.Hex())
	orderRoom := realtime.OrderRoom(order.OrderID)

	if err := n.rooms.Emit(restaurantRoom, "order_status_update", update); err != nil {
		n.logger.Warn("order_status_update emit failed", zap.String("room", restaurantRoom), zap.Error(err))
	}
	if err := n.rooms.Emit(orderRoom, "order_status_update", update); err != nil {
		n.logger.Warn("order_status_update emit failed", zap.String("room", orderRoom), zap.Error(err))
	}

	title := "Order Update"
	body := fmt.Sprintf("Your order #%s status is now %s", order.OrderID, status)
	if sc, ok := statusCopies[status]; ok {
		title = sc.title
		body = sc.body
	}

	n.pushTo(ctx, order.UserID.Hex(), models.AccountUser, sender.Message{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"orderId":      order.OrderID,
			"type":         "order_update",
			"status":       status,
			"click_action": "/orders",
		},
	})

	if status == models.StatusDelivered {
		n.pushTo(ctx, order.RestaurantID.Hex(), models.AccountRestaurant, sender.Message{
			Title: "✅ Order Delivered!",
			Body:  fmt.Sprintf("Order #%s has been successfully delivered by the delivery partner.", order.OrderID),
			Data: map[string]string{
				"orderId":      order.OrderID,
				"orderMongoId": order.ID.Hex(),
				"type":         "order_delivered",
				"click_action": "/orders",
			},
		})
	}
}

// newOrderPayload normalizes the order summary sent to restaurant portals.
func (n *Notifier) newOrderPayload(ctx context.Context, order *models.Order, paymentMethodOverride string) map[string]any {
	items := make([]map[string]any, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]any{
			"name":     item.Name,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	}

	estimated := order.EstimatedDeliveryTime
	if estimated == 0 {
		estimated = defaultEstimatedDeliveryMinutes
	}

	return map[string]any{
		"orderId":        order.OrderID,
		"orderMongoId":   order.ID.Hex(),
		"restaurantId":   order.RestaurantID.Hex(),
		"restaurantName": order.RestaurantName,
		"items":          items,
		"total":          order.Pricing.Total,
		"customerAddress": map[string]any{
			"label":    order.Address.Label,
			"street":   order.Address.Street,
			"city":     order.Address.City,
			"location": order.Address.Location,
		},
		"status":                order.Status,
		"createdAt":             order.CreatedAt,
		"estimatedDeliveryTime": estimated,
		"note":                  order.Note,
		"sendCutlery":           order.SendCutlery,
		"paymentMethod":         n.resolvePaymentMethod(ctx, order, paymentMethodOverride),
	}
}

// resolvePaymentMethod picks, in order of precedence: the caller's override,
// the method stored on the order, then the persisted payment record. Cash
// recorded by the payment flow wins over a stale non-cash value on the order.
func (n *Notifier) resolvePaymentMethod(ctx context.Context, order *models.Order, override string) string {
	method := override
	if method == "" {
		method = order.Payment.Method
	}
	if method != "cash" && n.payments != nil {
		if recorded, err := n.payments.FindMethodByOrderID(ctx, order.ID); err == nil && recorded == "cash" {
			method = "cash"
		}
	}
	if method == "" {
		method = "razorpay"
	}
	return method
}

// pushTo resolves the account's registered tokens, sends, and prunes whatever
// the provider reports as invalid. Every failure is logged and swallowed.
func (n *Notifier) pushTo(ctx context.Context, accountID, accountType string, msg sender.Message) {
	tokens, err := n.tokens.GetTokens(ctx, accountID, accountType)
	if err != nil {
		n.logger.Warn("failed to load push tokens",
			zap.String("account_type", accountType),
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return
	}
	if len(tokens) == 0 {
		n.logger.Debug("no push tokens registered",
			zap.String("account_type", accountType),
			zap.String("account_id", accountID),
		)
		return
	}

	result, err := n.push.Send(ctx, tokens, msg)
	if err != nil {
		n.logger.Error("push send failed",
			zap.String("account_type", accountType),
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return
	}

	if len(result.FailedTokens) > 0 {
		if err := n.tokens.PruneInvalid(ctx, accountID, accountType, result.FailedTokens); err != nil {
			n.logger.Warn("failed to prune invalid tokens",
				zap.String("account_type", accountType),
				zap.String("account_id", accountID),
				zap.Int("tokens", len(result.FailedTokens)),
				zap.Error(err),
			)
		}
	}
}
