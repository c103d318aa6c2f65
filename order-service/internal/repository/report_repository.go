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

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	// List returns staffID's reports, or every report when staffID is empty.
	List(ctx context.Context, staffID string) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error
}

type reportRepository struct {
	collection *mongo.Collection
}

func NewReportRepository(db *mongo.Database) ReportRepository {
	return &reportRepository{collection: db.Collection("violation_reports")}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	report.Status = models.ReportOpen
	report.UpdatedAt = report.CreatedAt
	_, err := r.collection.InsertOne(ctx, report)
	return err
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("report %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, staffID string) ([]models.Report, error) {
	filter := bson.M{}
	if staffID != "" {
		filter["staff_id"] = staffID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("report %s: %w", id, models.ErrNotFound)
	}
	return nil
}
