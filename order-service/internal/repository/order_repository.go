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

// OrderRepository is the store of record for orders. Save is a
// compare-and-swap on the status and version the caller read: it fails
// with ErrInvalidTransition when the stored order has moved on, and bumps
// order.Version on success.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByStaff(ctx context.Context, staffID string) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order, expected models.OrderStatus) error
}

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection("orders")}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: order %s already exists", models.ErrValidation, order.ID)
	}
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepository) ListByStaff(ctx context.Context, staffID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"assigned_staff_id": staffID})
}

func (r *orderRepository) Save(ctx context.Context, order *models.Order, expected models.OrderStatus) error {
	read := order.Version
	order.Version = read + 1
	order.UpdatedAt = time.Now()

	filter := bson.M{"_id": order.ID, "status": expected, "version": read}
	res, err := r.collection.ReplaceOne(ctx, filter, order)
	if err != nil {
		order.Version = read
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	order.Version = read

	var current struct {
		Status  models.OrderStatus `bson:"status"`
		Version int64              `bson:"version"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": order.ID}).Decode(&current)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("order %s: %w", order.ID, models.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if current.Status != expected {
		return fmt.Errorf("%w: order %s is no longer %s", models.ErrInvalidTransition, order.ID, expected)
	}
	return fmt.Errorf("%w: order %s was modified concurrently", models.ErrInvalidTransition, order.ID)
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
