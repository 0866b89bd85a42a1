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

const loggedMealCollectionName = "trainee_meals"

// mongoLoggedMealRepository implements repository.LoggedMealRepository
type mongoLoggedMealRepository struct {
	collection *mongo.Collection
}

// NewMongoLoggedMealRepository creates a new LoggedMeal repository backed by MongoDB.
func NewMongoLoggedMealRepository(db *mongo.Database) repository.LoggedMealRepository {
	return &mongoLoggedMealRepository{
		collection: db.Collection(loggedMealCollectionName),
	}
}

// Create inserts a new ad-hoc logged meal.
func (r *mongoLoggedMealRepository) Create(ctx context.Context, meal *domain.LoggedMeal) (primitive.ObjectID, error) {
	if meal.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("logged meal requires a trainee ID")
	}

	meal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	if meal.Status == "" {
		meal.Status = domain.MealPending
	}

	result, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, translateError(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted logged meal ID")
	}
	return insertedID, nil
}

// GetByID retrieves a logged meal by its ID.
func (r *mongoLoggedMealRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LoggedMeal, error) {
	var meal domain.LoggedMeal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meal)
	if err != nil {
		return nil, translateError(err)
	}
	return &meal, nil
}

// GetByTraineeAndDate retrieves every ad-hoc meal a trainee logged on one day.
func (r *mongoLoggedMealRepository) GetByTraineeAndDate(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]domain.LoggedMeal, error) {
	var meals []domain.LoggedMeal
	filter := bson.M{"traineeId": traineeID, "date": date}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &meals); err != nil {
		return nil, translateError(err)
	}
	return meals, nil
}

// UpdateStatus sets the adherence status of a logged meal.
func (r *mongoLoggedMealRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MealStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a logged meal; missing ids are a no-op.
func (r *mongoLoggedMealRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return translateError(err)
}

// EnsureLoggedMealIndexes creates necessary indexes for the trainee_meals collection.
func EnsureLoggedMealIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
