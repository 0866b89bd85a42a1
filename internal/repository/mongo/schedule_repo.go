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

const scheduleCollectionName = "weekly_schedules"

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new WeeklySchedule repository backed by MongoDB.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// GetOrCreate looks up the schedule for (traineeID, weekStart) and
// inserts it on first access. Two callers racing on the first insert
// both end up with the same row: the loser's insert hits the unique
// (traineeId, weekStartDate) index and falls back to reading the
// winner's document.
func (r *mongoScheduleRepository) GetOrCreate(ctx context.Context, traineeID primitive.ObjectID, weekStart time.Time) (*domain.WeeklySchedule, error) {
	if traineeID == primitive.NilObjectID {
		return nil, errors.New("schedule requires a trainee ID")
	}

	existing, err := r.GetByTraineeAndWeek(ctx, traineeID, weekStart)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	schedule := &domain.WeeklySchedule{
		ID:            primitive.NewObjectID(),
		TraineeID:     traineeID,
		WeekStartDate: weekStart,
		CreatedAt:     time.Now().UTC(),
	}

	_, err = r.collection.InsertOne(ctx, schedule)
	if err != nil {
		if errors.Is(translateError(err), repository.ErrDuplicateKey) {
			// Lost the creation race; the conflicting row is the one we want.
			return r.GetByTraineeAndWeek(ctx, traineeID, weekStart)
		}
		return nil, translateError(err)
	}
	return schedule, nil
}

// GetByID retrieves a schedule by its ID.
func (r *mongoScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklySchedule, error) {
	var schedule domain.WeeklySchedule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		return nil, translateError(err)
	}
	return &schedule, nil
}

// GetByTraineeAndWeek retrieves the schedule covering one week for a trainee.
func (r *mongoScheduleRepository) GetByTraineeAndWeek(ctx context.Context, traineeID primitive.ObjectID, weekStart time.Time) (*domain.WeeklySchedule, error) {
	var schedule domain.WeeklySchedule
	filter := bson.M{"traineeId": traineeID, "weekStartDate": weekStart}
	err := r.collection.FindOne(ctx, filter).Decode(&schedule)
	if err != nil {
		return nil, translateError(err)
	}
	return &schedule, nil
}

// EnsureScheduleIndexes creates necessary indexes for the weekly_schedules
// collection. The unique compound index is what makes lazy creation safe
// under concurrency.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "weekStartDate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
