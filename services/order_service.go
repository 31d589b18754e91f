package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"delivery-service/models"
	"delivery-service/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type CreateOrderRequest struct {
	RestaurantID   string             `json:"restaurantId" binding:"required"`
	RestaurantName string             `json:"restaurantName"`
	Items          []models.OrderItem `json:"items" binding:"required,dive"`
	Pricing        models.Pricing     `json:"pricing" binding:"required"`
	Address        models.Address     `json:"address" binding:"required"`
	PaymentMethod  string             `json:"paymentMethod"`
	Note           string             `json:"note"`
	SendCutlery    bool               `json:"sendCutlery"`
}

// OrderService owns order creation and lookup. Notification fan-out runs
// after the order is persisted and can never fail the creation.
type OrderService struct {
	orders   repository.OrderRepository
	notifier *Notifier
	logger   *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, notifier *Notifier, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, notifier: notifier, logger: logger}
}

func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("at least one item is required")
	}

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}
	restaurantOID, err := primitive.ObjectIDFromHex(req.RestaurantID)
	if err != nil {
		return nil, errors.New("invalid restaurant id")
	}

	order := &models.Order{
		OrderID:        newOrderID(),
		UserID:         userOID,
		RestaurantID:   restaurantOID,
		RestaurantName: req.RestaurantName,
		Items:          req.Items,
		Pricing:        req.Pricing,
		Address:        req.Address,
		Payment:        models.PaymentInfo{Method: req.PaymentMethod},
		Status:         models.StatusPending,
		Note:           req.Note,
		SendCutlery:    req.SendCutlery,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		result := s.notifier.NotifyNewOrder(ctx, order, req.RestaurantID, req.PaymentMethod)
		if !result.SocketConnected {
			s.logger.Info("restaurant offline for new order, push-only delivery",
				zap.String("order_id", order.OrderID),
				zap.String("restaurant_id", result.RestaurantID),
			)
		}
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByAnyID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// newOrderID generates the short public order id shown to customers and
// restaurants, e.g. ORD-9F2C41D8.
func newOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "ORD-" + suffix
}
