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

const exerciseAssignmentCollectionName = "schedule_exercises"

// mongoExerciseAssignmentRepository implements repository.ExerciseAssignmentRepository
type mongoExerciseAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseAssignmentRepository creates a new ExerciseAssignment repository backed by MongoDB.
func NewMongoExerciseAssignmentRepository(db *mongo.Database) repository.ExerciseAssignmentRepository {
	return &mongoExerciseAssignmentRepository{
		collection: db.Collection(exerciseAssignmentCollectionName),
	}
}

// Create inserts a new exercise assignment.
func (r *mongoExerciseAssignmentRepository) Create(ctx context.Context, assignment *domain.ExerciseAssignment) (primitive.ObjectID, error) {
	if assignment.ScheduleID == primitive.NilObjectID ||
		assignment.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires scheduleId and exerciseId")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.Status == "" {
		assignment.Status = domain.ExercisePending
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

// GetByID retrieves an exercise assignment by its ID.
func (r *mongoExerciseAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseAssignment, error) {
	var assignment domain.ExerciseAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		return nil, translateError(err)
	}
	return &assignment, nil
}

// GetByScheduleID retrieves every exercise assignment of a schedule.
func (r *mongoExerciseAssignmentRepository) GetByScheduleID(ctx context.Context, scheduleID primitive.ObjectID) ([]domain.ExerciseAssignment, error) {
	return r.find(ctx, bson.M{"scheduleId": scheduleID})
}

// GetByScheduleAndDay retrieves the exercise assignments of one day.
func (r *mongoExerciseAssignmentRepository) GetByScheduleAndDay(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]domain.ExerciseAssignment, error) {
	return r.find(ctx, bson.M{"scheduleId": scheduleID, "dayOfWeek": dayOfWeek})
}

func (r *mongoExerciseAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.ExerciseAssignment, error) {
	var assignments []domain.ExerciseAssignment
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

// UpdateStatus sets the completion status, unsetting the stamp when
// the status returns to pending.
func (r *mongoExerciseAssignmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ExerciseStatus, statusChangedAt *time.Time) error {
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

// Delete hard-deletes an exercise assignment; missing ids are a no-op.
func (r *mongoExerciseAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return translateError(err)
}

// EnsureExerciseAssignmentIndexes creates necessary indexes for the
// schedule_exercises collection.
func EnsureExerciseAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "scheduleId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
