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

// NotificationRepository stores feed entries. Read and delete act on one
// staff member's view: on a broadcast they only record that staff member
// as having read or dismissed it.
type NotificationRepository interface {
	Create(ctx context.Context, notif *models.Notification) error
	ListByStaff(ctx context.Context, staffID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, staffID string) (int64, error)
	MarkAsRead(ctx context.Context, id, staffID string) error
	MarkAllAsRead(ctx context.Context, staffID string) (int64, error)
	Delete(ctx context.Context, id, staffID string) error
}

type mongoRepo struct {
	col *mongo.Collection
}

func NewMongoNotificationRepo(db *mongo.Database) NotificationRepository {
	return &mongoRepo{col: db.Collection("notifications")}
}

// feedFilter matches a staff member's own entries plus the broadcasts
// they have not dismissed.
func feedFilter(staffID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"staff_id": staffID},
		bson.M{"staff_id": "", "dismissed_by": bson.M{"$ne": staffID}},
	}}
}

func unreadBroadcasts(staffID string) bson.M {
	return bson.M{
		"staff_id":     "",
		"read_by":      bson.M{"$ne": staffID},
		"dismissed_by": bson.M{"$ne": staffID},
	}
}

func (r *mongoRepo) Create(ctx context.Context, notif *models.Notification) error {
	_, err := r.col.InsertOne(ctx, notif)
	return err
}

func (r *mongoRepo) ListByStaff(ctx context.Context, staffID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, feedFilter(staffID), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	for i := range notifications {
		notifications[i] = notifications[i].ForStaff(staffID)
	}
	return notifications, nil
}

func (r *mongoRepo) CountUnread(ctx context.Context, staffID string) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"staff_id": staffID, "is_read": false},
		unreadBroadcasts(staffID),
	}}
	return r.col.CountDocuments(ctx, filter)
}

func (r *mongoRepo) MarkAsRead(ctx context.Context, id, staffID string) error {
	n, err := r.visible(ctx, id, staffID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"is_read": true}}
	if n.IsBroadcast() {
		update = bson.M{"$addToSet": bson.M{"read_by": staffID}}
	}
	_, err = r.col.UpdateByID(ctx, id, update)
	return err
}

func (r *mongoRepo) MarkAllAsRead(ctx context.Context, staffID string) (int64, error) {
	own, err := r.col.UpdateMany(ctx,
		bson.M{"staff_id": staffID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	shared, err := r.col.UpdateMany(ctx, unreadBroadcasts(staffID),
		bson.M{"$addToSet": bson.M{"read_by": staffID}})
	if err != nil {
		return own.ModifiedCount, err
	}
	return own.ModifiedCount + shared.ModifiedCount, nil
}

func (r *mongoRepo) Delete(ctx context.Context, id, staffID string) error {
	n, err := r.visible(ctx, id, staffID)
	if err != nil {
		return err
	}
	if n.IsBroadcast() {
		_, err = r.col.UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{"dismissed_by": staffID}})
		return err
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// visible loads id and checks that it is in staffID's feed.
func (r *mongoRepo) visible(ctx context.Context, id, staffID string) (*models.Notification, error) {
	var n models.Notification
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !n.VisibleTo(staffID) {
		return nil, fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
	}
	return &n, nil
}
