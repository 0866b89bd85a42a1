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

const stepCollectionName = "trainee_steps"

// mongoStepRepository implements repository.StepRepository
type mongoStepRepository struct {
	collection *mongo.Collection
}

// NewMongoStepRepository creates a new StepRecord repository backed by MongoDB.
func NewMongoStepRepository(db *mongo.Database) repository.StepRepository {
	return &mongoStepRepository{
		collection: db.Collection(stepCollectionName),
	}
}

// GetByTraineeAndDate retrieves the step record for one day.
func (r *mongoStepRepository) GetByTraineeAndDate(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*domain.StepRecord, error) {
	var record domain.StepRecord
	filter := bson.M{"traineeId": traineeID, "date": date}
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

// GetRange retrieves step records with from <= date <= to, oldest first.
func (r *mongoStepRepository) GetRange(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.StepRecord, error) {
	var records []domain.StepRecord
	filter := bson.M{
		"traineeId": traineeID,
		"date":      bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, translateError(err)
	}
	return records, nil
}

// UpsertSteps sets the step count for a date in one atomic operation,
// creating the record with defaultTarget if this is the first write of
// the day. The unique (traineeId, date) index keeps racing first
// writes from producing two records.
func (r *mongoStepRepository) UpsertSteps(ctx context.Context, traineeID primitive.ObjectID, date time.Time, steps, defaultTarget int) (*domain.StepRecord, error) {
	if traineeID == primitive.NilObjectID {
		return nil, errors.New("step record requires a trainee ID")
	}

	now := time.Now().UTC()
	filter := bson.M{"traineeId": traineeID, "date": date}
	update := bson.M{
		"$set": bson.M{
			"steps":     steps,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"traineeId":   traineeID,
			"date":        date,
			"targetSteps": defaultTarget,
			"createdAt":   now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record domain.StepRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

// EnsureRecord creates the record for a date with zero steps and the
// given target if absent; an existing record is left untouched.
func (r *mongoStepRepository) EnsureRecord(ctx context.Context, traineeID primitive.ObjectID, date time.Time, target int) error {
	now := time.Now().UTC()
	filter := bson.M{"traineeId": traineeID, "date": date}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"traineeId":   traineeID,
			"date":        date,
			"steps":       0,
			"targetSteps": target,
			"createdAt":   now,
			"updatedAt":   now,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		// A concurrent EnsureRecord can collide on the unique index;
		// either way the record now exists.
		if errors.Is(translateError(err), repository.ErrDuplicateKey) {
			return nil
		}
		return translateError(err)
	}
	return nil
}

// SetTargetFrom applies target to every record with date >= from as a
// single UpdateMany, so a reader immediately afterwards sees the old
// target on past dates and the new one from `from` onward.
func (r *mongoStepRepository) SetTargetFrom(ctx context.Context, traineeID primitive.ObjectID, from time.Time, target int) error {
	filter := bson.M{
		"traineeId": traineeID,
		"date":      bson.M{"$gte": from},
	}
	update := bson.M{"$set": bson.M{
		"targetSteps": target,
		"updatedAt":   time.Now().UTC(),
	}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return translateError(err)
}

// EnsureStepIndexes creates necessary indexes for the trainee_steps collection.
func EnsureStepIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
