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

const mealCollectionName = "meals"

// mongoMealRepository implements repository.MealRepository
type mongoMealRepository struct {
	collection *mongo.Collection
}

// NewMongoMealRepository creates a new Meal repository backed by MongoDB.
func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{
		collection: db.Collection(mealCollectionName),
	}
}

// Create inserts a new catalog meal.
func (r *mongoMealRepository) Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	if meal.Name == "" {
		return primitive.NilObjectID, errors.New("meal requires a name")
	}

	meal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, translateError(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal ID")
	}
	return insertedID, nil
}

// GetByID retrieves a meal by its ID.
func (r *mongoMealRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error) {
	var meal domain.Meal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meal)
	if err != nil {
		return nil, translateError(err)
	}
	return &meal, nil
}

// GetByIDs retrieves all meals whose ID appears in ids. Absent IDs are
// simply missing from the result; the caller decides whether that is
// an error.
func (r *mongoMealRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Meal, error) {
	if len(ids) == 0 {
		return []domain.Meal{}, nil
	}

	var meals []domain.Meal
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translateError(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &meals); err != nil {
		return nil, translateError(err)
	}
	return meals, nil
}

// List returns catalog meals, optionally filtered by category.
func (r *mongoMealRepository) List(ctx context.Context, category string) ([]domain.Meal, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	var meals []domain.Meal
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

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

// Update modifies an existing catalog meal.
func (r *mongoMealRepository) Update(ctx context.Context, meal *domain.Meal) error {
	if meal.ID == primitive.NilObjectID {
		return errors.New("meal ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"name":        meal.Name,
		"category":    meal.Category,
		"calories":    meal.Calories,
		"protein":     meal.Protein,
		"carbs":       meal.Carbs,
		"fat":         meal.Fat,
		"description": meal.Description,
		"imageKey":    meal.ImageKey,
		"updatedAt":   time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": meal.ID}, update)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a catalog meal.
func (r *mongoMealRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMealIndexes creates necessary indexes for the meals collection.
func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
