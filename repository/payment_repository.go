package repository

import (
	"context"

	"delivery-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentRepository resolves payment records owned by the payment flow; this
// service only ever reads the method for notification payloads.
type PaymentRepository interface {
	FindMethodByOrderID(ctx context.Context, orderID primitive.ObjectID) (string, error)
}

type MongoPaymentRepository struct {
	collection *mongo.Collection
}

func NewMongoPaymentRepository(db *mongo.Database) *MongoPaymentRepository {
	return &MongoPaymentRepository{collection: db.Collection("payments")}
}

func (r *MongoPaymentRepository) FindMethodByOrderID(ctx context.Context, orderID primitive.ObjectID) (string, error) {
	opts := options.FindOne().SetProjection(bson.M{"method": 1})
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}, opts).Decode(&payment)
	if err != nil {
		return "", err
	}
	return payment.Method, nil
}
