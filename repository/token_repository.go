package repository

import (
	"context"
	"fmt"

	"delivery-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenRepository maintains the deduplicated push-token set per account.
// All mutations are atomic set updates ($addToSet / $pull / $pullAll) so
// concurrent logins from multiple devices cannot lose each other's writes.
type TokenRepository interface {
	AddToken(ctx context.Context, accountID, accountType, token, platform string) error
	RemoveToken(ctx context.Context, accountID, accountType, token string) error
	PruneInvalid(ctx context.Context, accountID, accountType string, tokens []string) error
	GetTokens(ctx context.Context, accountID, accountType string) ([]string, error)
	ListTokensByAudience(ctx context.Context, audience string, zone *models.Zone) ([]string, error)
}

var accountCollections = map[string]string{
	models.AccountUser:       "users",
	models.AccountRestaurant: "restaurants",
	models.AccountDelivery:   "deliveries",
}

var audienceCollections = map[string]string{
	models.AudienceCustomer:   "users",
	models.AudienceRestaurant: "restaurants",
	models.AudienceDelivery:   "deliveries",
}

// Location field per collection, for zone-filtered broadcasts.
var audienceGeoFields = map[string]string{
	"users":       "currentLocation.location",
	"restaurants": "location.coordinates",
	"deliveries":  "availability.currentLocation",
}

type MongoTokenRepository struct {
	db *mongo.Database
}

func NewMongoTokenRepository(db *mongo.Database) *MongoTokenRepository {
	return &MongoTokenRepository{db: db}
}

func (r *MongoTokenRepository) collectionFor(accountType string) (*mongo.Collection, error) {
	name, ok := accountCollections[accountType]
	if !ok {
		return nil, fmt.Errorf("unknown account type: %s", accountType)
	}
	return r.db.Collection(name), nil
}

func tokenField(platform string) string {
	if platform == models.PlatformMobile {
		return "fcmTokenMobile"
	}
	return "fcmTokens"
}

func (r *MongoTokenRepository) AddToken(ctx context.Context, accountID, accountType, token, platform string) error {
	coll, err := r.collectionFor(accountType)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{tokenField(platform): token}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoTokenRepository) RemoveToken(ctx context.Context, accountID, accountType, token string) error {
	coll, err := r.collectionFor(accountType)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	// The token may sit in either of the two parallel lists.
	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{
			"fcmTokens":      token,
			"fcmTokenMobile": token,
		}},
	)
	return err
}

func (r *MongoTokenRepository) PruneInvalid(ctx context.Context, accountID, accountType string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	coll, err := r.collectionFor(accountType)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	// $pullAll on tokens that are not present is a no-op, not an error.
	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pullAll": bson.M{
			"fcmTokens":      tokens,
			"fcmTokenMobile": tokens,
		}},
	)
	return err
}

func (r *MongoTokenRepository) GetTokens(ctx context.Context, accountID, accountType string) ([]string, error) {
	coll, err := r.collectionFor(accountType)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id: %w", err)
	}

	opts := options.FindOne().SetProjection(bson.M{"fcmTokens": 1, "fcmTokenMobile": 1})
	var doc models.TokenDoc
	if err := coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Tokens(), nil
}

func (r *MongoTokenRepository) ListTokensByAudience(ctx context.Context, audience string, zone *models.Zone) ([]string, error) {
	name, ok := audienceCollections[audience]
	if !ok {
		return nil, fmt.Errorf("unknown audience: %s", audience)
	}

	filter := bson.M{}
	if name == "users" {
		filter["role"] = "user"
	}
	if zone != nil {
		filter[audienceGeoFields[name]] = bson.M{
			"$geoWithin": bson.M{"$geometry": zone.Boundary},
		}
	}

	opts := options.Find().SetProjection(bson.M{"fcmTokens": 1, "fcmTokenMobile": 1})
	cursor, err := r.db.Collection(name).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	seen := make(map[string]struct{})
	var tokens []string
	for cursor.Next(ctx) {
		var doc models.TokenDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		for _, t := range doc.Tokens() {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tokens = append(tokens, t)
		}
	}
	return tokens, cursor.Err()
}
