package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"delivery-service/kafka"
	"delivery-service/models"
	"delivery-service/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StatusNotifier receives the result of a successful transition for fan-out.
// Notification is fire-and-forget relative to the order mutation: the
// implementation logs its own failures and never returns them.
type StatusNotifier interface {
	NotifyOrderStatusChange(ctx context.Context, orderID, status string)
}

// DeliveryService advances orders through the delivery journey. Transitions
// are serialized per order with a redis lease, and the repository applies a
// phase-guarded update so a lost race surfaces as a failed match rather than
// an out-of-order write.
type DeliveryService struct {
	orders   repository.OrderRepository
	locker   repository.OrderLocker
	notifier StatusNotifier
	producer kafka.ProducerAPI
	logger   *zap.Logger
}

func NewDeliveryService(
	orders repository.OrderRepository,
	locker repository.OrderLocker,
	notifier StatusNotifier,
	producer kafka.ProducerAPI,
	logger *zap.Logger,
) *DeliveryService {
	return &DeliveryService{
		orders:   orders,
		locker:   locker,
		notifier: notifier,
		producer: producer,
		logger:   logger,
	}
}

// AcceptOrder engages a delivery partner with an unassigned order.
func (s *DeliveryService) AcceptOrder(ctx context.Context, orderID, partnerID string, location *models.GeoPoint) (*models.Order, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":                     models.StatusAccepted,
		"deliveryState.status":       models.StatusAccepted,
		"deliveryState.currentPhase": models.PhaseEnRouteToPickup,
		"deliveryState.acceptedAt":   now,
	}
	if oid, err := primitive.ObjectIDFromHex(partnerID); err == nil {
		set["deliveryPartnerId"] = oid
	}
	if location != nil {
		set["deliveryState.partnerLocation"] = location
	}

	// Orders never touched by a partner have no currentPhase yet.
	return s.transition(ctx, orderID, bson.A{nil, ""}, set)
}

// ConfirmReachedPickup records arrival at the restaurant.
func (s *DeliveryService) ConfirmReachedPickup(ctx context.Context, orderID string) (*models.Order, error) {
	set := bson.M{
		"status":                        models.StatusReachedPickup,
		"deliveryState.status":          models.StatusReachedPickup,
		"deliveryState.currentPhase":    models.PhaseAtPickup,
		"deliveryState.reachedPickupAt": time.Now().UTC(),
	}
	return s.transition(ctx, orderID, bson.A{models.PhaseEnRouteToPickup}, set)
}

// ConfirmPickedUp records pickup with its proof-of-purchase image and moves
// the order out for delivery.
func (s *DeliveryService) ConfirmPickedUp(ctx context.Context, orderID, billImageRef string) (*models.Order, error) {
	if billImageRef == "" {
		return nil, ErrMissingEvidence
	}
	set := bson.M{
		"status":                     models.StatusOutForDelivery,
		"deliveryState.status":       models.StatusOrderConfirmed,
		"deliveryState.currentPhase": models.PhaseEnRouteToDelivery,
		"deliveryState.billImage":    billImageRef,
		"deliveryState.pickedUpAt":   time.Now().UTC(),
	}
	return s.transition(ctx, orderID, bson.A{models.PhaseAtPickup}, set)
}

// ConfirmReachedDrop records arrival at the customer's address.
func (s *DeliveryService) ConfirmReachedDrop(ctx context.Context, orderID string) (*models.Order, error) {
	set := bson.M{
		"status":                      models.StatusReachedDrop,
		"deliveryState.status":        models.StatusReachedDrop,
		"deliveryState.currentPhase":  models.PhaseAtDelivery,
		"deliveryState.reachedDropAt": time.Now().UTC(),
	}
	return s.transition(ctx, orderID, bson.A{models.PhaseEnRouteToDelivery}, set)
}

// CompleteDelivery marks the order delivered. Repeat calls return the
// already-completed order instead of erroring.
func (s *DeliveryService) CompleteDelivery(ctx context.Context, orderID string, rating int, review string) (*models.Order, error) {
	release, err := s.lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if IsDelivered(order) {
		return order, nil
	}

	set := bson.M{
		"status":                     models.StatusDelivered,
		"deliveryState.status":       models.StatusDelivered,
		"deliveryState.currentPhase": models.PhaseCompleted,
		"deliveryState.deliveredAt":  time.Now().UTC(),
	}
	if rating > 0 {
		set["deliveryState.rating"] = rating
	}
	if review != "" {
		set["deliveryState.review"] = review
	}

	updated, err := s.apply(ctx, order, bson.A{models.PhaseAtDelivery}, set)
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, updated)
	return updated, nil
}

// Cancel terminates the order from any non-terminal state.
func (s *DeliveryService) Cancel(ctx context.Context, orderID, reason string) (*models.Order, error) {
	set := bson.M{
		"status":                     models.StatusCancelled,
		"deliveryState.status":       models.StatusCancelled,
		"deliveryState.currentPhase": models.PhaseCancelledValue,
		"deliveryState.cancelReason": reason,
	}
	allowed := bson.A{
		nil, "",
		models.PhaseEnRouteToPickup,
		models.PhaseAtPickup,
		"picked_up",
		models.PhaseEnRouteToDelivery,
		models.PhaseAtDelivery,
	}
	return s.transition(ctx, orderID, allowed, set)
}

const defaultPartnerPageSize = 20

// ListPartnerOrders returns the partner's order history, newest first.
func (s *DeliveryService) ListPartnerOrders(ctx context.Context, partnerID string, page, limit int) ([]models.Order, int64, error) {
	oid, err := primitive.ObjectIDFromHex(partnerID)
	if err != nil {
		return nil, 0, errors.New("invalid partner id")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPartnerPageSize
	}
	orders, total, err := s.orders.FindByPartner(ctx, oid, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, total, nil
}

func (s *DeliveryService) transition(ctx context.Context, orderID string, allowedFrom bson.A, set bson.M) (*models.Order, error) {
	release, err := s.lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, order, allowedFrom, set)
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, updated)
	return updated, nil
}

func (s *DeliveryService) lock(ctx context.Context, orderID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	return s.locker.Acquire(ctx, orderID)
}

func (s *DeliveryService) load(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.FindByAnyID(ctx, orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *DeliveryService) apply(ctx context.Context, order *models.Order, allowedFrom bson.A, set bson.M) (*models.Order, error) {
	updated, err := s.orders.AdvanceDeliveryState(ctx, order.ID, allowedFrom, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The guard did not match: terminal order or out-of-order request.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return updated, nil
}

// afterTransition fans the new status out and publishes the order event.
// Neither channel may fail the transition that triggered it.
func (s *DeliveryService) afterTransition(ctx context.Context, order *models.Order) {
	if s.notifier != nil {
		s.notifier.NotifyOrderStatusChange(ctx, order.ID.Hex(), order.Status)
	}

	if s.producer == nil {
		return
	}
	event := models.OrderStatusEvent{
		OrderID:      order.OrderID,
		OrderMongoID: order.ID.Hex(),
		Status:       order.Status,
		Phase:        order.DeliveryState.CurrentPhase,
		Timestamp:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to marshal order status event", zap.Error(err))
		return
	}
	if err := s.producer.Publish(ctx, order.OrderID, payload); err != nil {
		s.logger.Warn("failed to publish order status event",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
	}
}
