package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Top-level order lifecycle statuses.
const (
	StatusPending        = "pending"
	StatusPreparing      = "preparing"
	StatusReady          = "ready"
	StatusAccepted       = "accepted"
	StatusReachedPickup  = "reached_pickup"
	StatusOrderConfirmed = "order_confirmed"
	StatusReachedDrop    = "reached_drop"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Delivery-partner-facing phase values stored in deliveryState.currentPhase.
const (
	PhaseEnRouteToPickup   = "en_route_to_pickup"
	PhaseAtPickup          = "at_pickup"
	PhaseEnRouteToDelivery = "en_route_to_delivery"
	PhaseAtDelivery        = "at_delivery"
	PhaseCompleted         = "completed"
	PhaseCancelledValue    = "cancelled"
)

// GeoPoint is a GeoJSON point as stored by the mobile clients.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

type Address struct {
	Label    string    `bson:"label,omitempty" json:"label,omitempty"`
	Street   string    `bson:"street,omitempty" json:"street,omitempty"`
	City     string    `bson:"city,omitempty" json:"city,omitempty"`
	Location *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
}

type OrderItem struct {
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
}

type Pricing struct {
	Subtotal    float64 `bson:"subtotal" json:"subtotal"`
	DeliveryFee float64 `bson:"deliveryFee" json:"deliveryFee"`
	Tax         float64 `bson:"tax" json:"tax"`
	Total       float64 `bson:"total" json:"total"`
}

type PaymentInfo struct {
	Method string `bson:"method,omitempty" json:"method,omitempty"`
	Status string `bson:"status,omitempty" json:"status,omitempty"`
}

// DeliveryState is the finer-grained record the delivery partner's client
// drives. Status and CurrentPhase use two historical vocabularies; both are
// written on every transition so either reading style stays consistent.
type DeliveryState struct {
	Status          string     `bson:"status,omitempty" json:"status,omitempty"`
	CurrentPhase    string     `bson:"currentPhase,omitempty" json:"currentPhase,omitempty"`
	PartnerLocation *GeoPoint  `bson:"partnerLocation,omitempty" json:"partnerLocation,omitempty"`
	BillImage       string     `bson:"billImage,omitempty" json:"billImage,omitempty"`
	Rating          int        `bson:"rating,omitempty" json:"rating,omitempty"`
	Review          string     `bson:"review,omitempty" json:"review,omitempty"`
	CancelReason    string     `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	AcceptedAt      *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	ReachedPickupAt *time.Time `bson:"reachedPickupAt,omitempty" json:"reachedPickupAt,omitempty"`
	PickedUpAt      *time.Time `bson:"pickedUpAt,omitempty" json:"pickedUpAt,omitempty"`
	ReachedDropAt   *time.Time `bson:"reachedDropAt,omitempty" json:"reachedDropAt,omitempty"`
	DeliveredAt     *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
}

// Order documents are created at checkout and retained as history; they are
// never deleted.
type Order struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"orderMongoId"`
	OrderID               string              `bson:"orderId" json:"orderId"`
	UserID                primitive.ObjectID  `bson:"userId" json:"userId"`
	RestaurantID          primitive.ObjectID  `bson:"restaurantId" json:"restaurantId"`
	RestaurantName        string              `bson:"restaurantName,omitempty" json:"restaurantName,omitempty"`
	DeliveryPartnerID     *primitive.ObjectID `bson:"deliveryPartnerId,omitempty" json:"deliveryPartnerId,omitempty"`
	Items                 []OrderItem         `bson:"items" json:"items"`
	Pricing               Pricing             `bson:"pricing" json:"pricing"`
	Address               Address             `bson:"address" json:"address"`
	RestaurantAddress     Address             `bson:"restaurantAddress,omitempty" json:"restaurantAddress,omitempty"`
	Payment               PaymentInfo         `bson:"payment,omitempty" json:"payment,omitempty"`
	Status                string              `bson:"status" json:"status"`
	DeliveryState         DeliveryState       `bson:"deliveryState,omitempty" json:"deliveryState,omitempty"`
	AcceptedByAdmin       bool                `bson:"acceptedByAdmin,omitempty" json:"acceptedByAdmin"`
	Note                  string              `bson:"note,omitempty" json:"note,omitempty"`
	SendCutlery           bool                `bson:"sendCutlery,omitempty" json:"sendCutlery"`
	EstimatedDeliveryTime int                 `bson:"estimatedDeliveryTime,omitempty" json:"estimatedDeliveryTime,omitempty"`
	Tracking              map[string]any      `bson:"tracking,omitempty" json:"tracking,omitempty"`
	CreatedAt             time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Payment is the projection used to resolve the payment method for an order
// when neither the caller nor the order document carries it.
type Payment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID primitive.ObjectID `bson:"orderId" json:"orderId"`
	Method  string             `bson:"method" json:"method"`
	Status  string             `bson:"status,omitempty" json:"status,omitempty"`
}

// OrderStatusEvent is published to Kafka on every delivery-state transition.
type OrderStatusEvent struct {
	OrderID      string    `json:"order_id"`
	OrderMongoID string    `json:"order_mongo_id"`
	Status       string    `json:"status"`
	Phase        string    `json:"phase"`
	Timestamp    time.Time `json:"timestamp"`
}
