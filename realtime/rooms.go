package realtime

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// canonicalID collapses the identifier formats clients send (raw strings,
// upper/lower hex ObjectIDs, padded values) into one stable form so every
// caller derives the same room key.
func canonicalID(id string) string {
	s := strings.TrimSpace(id)
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return oid.Hex()
	}
	return s
}

// RestaurantRoom returns the single room key for a restaurant.
func RestaurantRoom(restaurantID string) string {
	return "restaurant:" + canonicalID(restaurantID)
}

// OrderRoom returns the tracking room key for an order's public id.
func OrderRoom(orderID string) string {
	return "order:" + strings.TrimSpace(orderID)
}
