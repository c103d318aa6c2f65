package repository

import (
	"cleaning-app/order-service/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	Save(ctx context.Context, staff *models.Staff) error
}

type staffRepository struct {
	collection *mongo.Collection
}

func NewStaffRepository(db *mongo.Database) StaffRepository {
	return &staffRepository{collection: db.Collection("staff")}
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	var staff models.Staff
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&staff)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("staff %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) Save(ctx context.Context, staff *models.Staff) error {
	staff.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": staff.ID}, staff, options.Replace().SetUpsert(true))
	return err
}
