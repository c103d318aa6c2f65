package repository

import (
	"cleaning-app/order-service/internal/models"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EvidenceRepository interface {
	Save(ctx context.Context, e *models.Evidence) error
	FindByOrderID(ctx context.Context, orderID string) ([]models.Evidence, error)
}

type evidenceRepository struct {
	collection *mongo.Collection
}

func NewEvidenceRepository(db *mongo.Database) EvidenceRepository {
	return &evidenceRepository{collection: db.Collection("order_evidence")}
}

func (r *evidenceRepository) Save(ctx context.Context, e *models.Evidence) error {
	_, err := r.collection.InsertOne(ctx, e)
	return err
}

func (r *evidenceRepository) FindByOrderID(ctx context.Context, orderID string) ([]models.Evidence, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.Evidence{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
