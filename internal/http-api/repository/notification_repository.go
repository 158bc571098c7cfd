package repository

import (
	"context"
	"fmt"

	"mangapress/internal/http-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollection = "notifications"

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

type notificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{coll: db.Collection(notificationCollection)}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if _, err := r.coll.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID, "read": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cur.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead flips the read flag. The filter includes user_id so a user
// can only touch their own notifications.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": notificationID, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, userID, notificationID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": notificationID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
