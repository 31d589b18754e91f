package repository

import (
	"context"

	"delivery-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ZoneRepository interface {
	FindByName(ctx context.Context, name string) (*models.Zone, error)
}

type MongoZoneRepository struct {
	collection *mongo.Collection
}

func NewMongoZoneRepository(db *mongo.Database) *MongoZoneRepository {
	return &MongoZoneRepository{collection: db.Collection("zones")}
}

func (r *MongoZoneRepository) FindByName(ctx context.Context, name string) (*models.Zone, error) {
	var zone models.Zone
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&zone); err != nil {
		return nil, err
	}
	return &zone, nil
}
