package mongo

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollectionName = "notifications"

// mongoNotificationRepository implements repository.NotificationRepository
type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new Notification repository backed by MongoDB.
func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{
		collection: db.Collection(notificationCollectionName),
	}
}

// readerFilter matches rows addressed to readerID plus broadcasts.
func readerFilter(readerID primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"recipientId": readerID},
		bson.M{"recipientId": nil},
	}}
}

// Create inserts a single notification row.
func (r *mongoNotificationRepository) Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	if notification.SenderID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("notification requires a sender ID")
	}

	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return primitive.NilObjectID, translateError(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted notification ID")
	}
	return insertedID, nil
}

// GetByID retrieves a notification by its ID.
func (r *mongoNotificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		return nil, translateError(err)
	}
	return &notification, nil
}

// ListForReader returns the reader's targeted rows plus every
// broadcast, newest first.
func (r *mongoNotificationRepository) ListForReader(ctx context.Context, readerID primitive.ObjectID) ([]domain.Notification, error) {
	var notifications []domain.Notification
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, readerFilter(readerID), opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, translateError(err)
	}
	return notifications, nil
}

// CountUnreadForReader counts visible rows that have not been read.
func (r *mongoNotificationRepository) CountUnreadForReader(ctx context.Context, readerID primitive.ObjectID) (int64, error) {
	filter := readerFilter(readerID)
	filter["readAt"] = nil

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// MarkRead stamps readAt on a row.
func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, readAt time.Time) error {
	update := bson.M{"$set": bson.M{"readAt": readAt}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a notification row.
func (r *mongoNotificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteBatch removes every row inserted by one multi-recipient send.
func (r *mongoNotificationRepository) DeleteBatch(ctx context.Context, batchID string) error {
	if batchID == "" {
		return errors.New("batch ID is required")
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"batchId": batchID})
	return translateError(err)
}

// EnsureNotificationIndexes creates necessary indexes for the notifications collection.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "batchId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
