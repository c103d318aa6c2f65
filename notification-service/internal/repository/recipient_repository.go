package repository

import (
	"cleaning-app/notification-service/internal/models"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecipientRepository interface {
	Get(ctx context.Context, staffID string) (*models.Recipient, error)
	Save(ctx context.Context, r *models.Recipient) error
}

type mongoRecipientRepo struct {
	col *mongo.Collection
}

func NewMongoRecipientRepo(db *mongo.Database) RecipientRepository {
	return &mongoRecipientRepo{col: db.Collection("notification_recipients")}
}

func (r *mongoRecipientRepo) Get(ctx context.Context, staffID string) (*models.Recipient, error) {
	var rec models.Recipient
	err := r.col.FindOne(ctx, bson.M{"_id": staffID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("recipient %s: %w", staffID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoRecipientRepo) Save(ctx context.Context, rec *models.Recipient) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": rec.StaffID}, rec, options.Replace().SetUpsert(true))
	return err
}
