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

const weightCollectionName = "trainee_weights"

// mongoWeightRepository implements repository.WeightRepository
type mongoWeightRepository struct {
	collection *mongo.Collection
}

// NewMongoWeightRepository creates a new WeightRecord repository backed by MongoDB.
func NewMongoWeightRepository(db *mongo.Database) repository.WeightRepository {
	return &mongoWeightRepository{
		collection: db.Collection(weightCollectionName),
	}
}

// Upsert records the morning weight for a date, overwriting any
// earlier weigh-in of the same day.
func (r *mongoWeightRepository) Upsert(ctx context.Context, traineeID primitive.ObjectID, date time.Time, weightKg float64) (*domain.WeightRecord, error) {
	if traineeID == primitive.NilObjectID {
		return nil, errors.New("weight record requires a trainee ID")
	}

	now := time.Now().UTC()
	filter := bson.M{"traineeId": traineeID, "date": date}
	update := bson.M{
		"$set": bson.M{
			"weightKg":  weightKg,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"traineeId": traineeID,
			"date":      date,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record domain.WeightRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

// GetRange retrieves weight records with from <= date <= to, oldest first.
func (r *mongoWeightRepository) GetRange(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.WeightRecord, error) {
	var records []domain.WeightRecord
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

// EnsureWeightIndexes creates necessary indexes for the trainee_weights collection.
func EnsureWeightIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
