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

const mealAssignmentCollectionName = "schedule_meals"

// mongoMealAssignmentRepository implements repository.MealAssignmentRepository
type mongoMealAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoMealAssignmentRepository creates a new MealAssignment repository backed by MongoDB.
func NewMongoMealAssignmentRepository(db *mongo.Database) repository.MealAssignmentRepository {
	return &mongoMealAssignmentRepository{
		collection: db.Collection(mealAssignmentCollectionName),
	}
}

// Create inserts a new meal assignment. No uniqueness constraint is
// applied: the same meal may appear twice in one slot.
func (r *mongoMealAssignmentRepository) Create(ctx context.Context, assignment *domain.MealAssignment) (primitive.ObjectID, error) {
	if assignment.ScheduleID == primitive.NilObjectID ||
		assignment.MealID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires scheduleId and mealId")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.Status == "" {
		assignment.Status = domain.MealPending
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, translateError(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a meal assignment by its ID.
func (r *mongoMealAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MealAssignment, error) {
	var assignment domain.MealAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		return nil, translateError(err)
	}
	return &assignment, nil
}

// GetByScheduleID retrieves every meal assignment of a schedule.
func (r *mongoMealAssignmentRepository) GetByScheduleID(ctx context.Context, scheduleID primitive.ObjectID) ([]domain.MealAssignment, error) {
	return r.find(ctx, bson.M{"scheduleId": scheduleID})
}

// GetByScheduleAndDay retrieves the meal assignments of one day.
func (r *mongoMealAssignmentRepository) GetByScheduleAndDay(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]domain.MealAssignment, error) {
	return r.find(ctx, bson.M{"scheduleId": scheduleID, "dayOfWeek": dayOfWeek})
}

func (r *mongoMealAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.MealAssignment, error) {
	var assignments []domain.MealAssignment
	opts := options.Find().SetSort(bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, translateError(err)
	}
	return assignments, nil
}

// UpdateStatus sets the adherence status. statusChangedAt carries the
// stamp for non-pending statuses and nil when the status returns to
// pending, in which case the stored field is unset.
func (r *mongoMealAssignmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MealStatus, statusChangedAt *time.Time) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if statusChangedAt != nil {
		set["statusChangedAt"] = *statusChangedAt
	} else {
		update["$unset"] = bson.M{"statusChangedAt": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a meal assignment. A missing id is a no-op so
// removal stays idempotent.
func (r *mongoMealAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return translateError(err)
}

// EnsureMealAssignmentIndexes creates necessary indexes for the
// schedule_meals collection.
func EnsureMealAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "scheduleId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "mealId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
