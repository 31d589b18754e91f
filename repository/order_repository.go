package repository

import (
	"context"
	"time"

	"delivery-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageSize = 20

// OrderRepository defines the order data access used by the delivery flow.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByAnyID(ctx context.Context, id string) (*models.Order, error)
	// AdvanceDeliveryState applies set only if the order's current phase is one
	// of allowedPhases and the order is not terminal; returns the updated order
	// or mongo.ErrNoDocuments when the guard did not match.
	AdvanceDeliveryState(ctx context.Context, id primitive.ObjectID, allowedPhases bson.A, set bson.M) (*models.Order, error)
	FindByPartner(ctx context.Context, partnerID primitive.ObjectID, page, limit int) ([]models.Order, int64, error)
}

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// FindByAnyID accepts either the Mongo hex id or the public order id. Client
// code historically mixed the two, so both forms resolve.
func (r *MongoOrderRepository) FindByAnyID(ctx context.Context, id string) (*models.Order, error) {
	var filter bson.M
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": oid}
	} else {
		filter = bson.M{"orderId": id}
	}

	var order models.Order
	if err := r.collection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) AdvanceDeliveryState(ctx context.Context, id primitive.ObjectID, allowedPhases bson.A, set bson.M) (*models.Order, error) {
	set["updatedAt"] = time.Now().UTC()

	filter := bson.M{
		"_id":                        id,
		"deliveryState.currentPhase": bson.M{"$in": allowedPhases},
		"status":                     bson.M{"$nin": bson.A{models.StatusDelivered, models.StatusCancelled}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoOrderRepository) FindByPartner(ctx context.Context, partnerID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	// Mongo rejects a negative skip, so out-of-range paging clamps to the
	// first page.
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	filter := bson.M{"deliveryPartnerId": partnerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
