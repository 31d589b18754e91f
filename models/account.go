package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Account types owning push-token sets.
const (
	AccountUser       = "user"
	AccountRestaurant = "restaurant"
	AccountDelivery   = "delivery"
)

// Token platforms. Web and mobile tokens live in two parallel lists on the
// account document; a token proven invalid is removed from both.
const (
	PlatformWeb    = "web"
	PlatformMobile = "mobile"
)

// Admin-broadcast audience classes, as the admin console labels them.
const (
	AudienceCustomer   = "Customer"
	AudienceRestaurant = "Restaurant"
	AudienceDelivery   = "Delivery Man"
)

// TokenDoc is the projection of an account document read for push delivery.
type TokenDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	FCMTokens      []string           `bson:"fcmTokens,omitempty"`
	FCMTokenMobile []string           `bson:"fcmTokenMobile,omitempty"`
}

// Tokens merges both lists, dropping duplicates and empty strings.
func (d *TokenDoc) Tokens() []string {
	merged := make([]string, 0, len(d.FCMTokens)+len(d.FCMTokenMobile))
	seen := make(map[string]struct{}, len(d.FCMTokens)+len(d.FCMTokenMobile))
	for _, t := range append(append([]string{}, d.FCMTokens...), d.FCMTokenMobile...) {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}

// Zone is a named service area used for geographic broadcast targeting.
type Zone struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Boundary map[string]any     `bson:"boundary" json:"boundary"`
}
