package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"alcyxob/coaching-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMealNotFound        = errors.New("meal not found")
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrCatalogValidation   = errors.New("catalog item validation failed")
	ErrImageUploadURLError = errors.New("failed to generate image upload URL")
	ErrImageMissing        = errors.New("meal has no image")
)

// MealInput carries the writable fields of a catalog meal.
type MealInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Calories    int     `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Description string  `json:"description"`
}

// ExerciseInput carries the writable fields of a catalog exercise.
type ExerciseInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	DefaultSets int    `json:"defaultSets"`
	DefaultReps int    `json:"defaultReps"`
	VideoURL    string `json:"videoUrl"`
}

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// CatalogService owns the read-only lookups the scheduling engine
// resolves nutrition facts from, plus the trainer-side CRUD that
// maintains them.
type CatalogService interface {
	CreateMeal(ctx context.Context, input MealInput) (*domain.Meal, error)
	GetMeal(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error)
	ListMeals(ctx context.Context, category string) ([]domain.Meal, error)
	UpdateMeal(ctx context.Context, id primitive.ObjectID, input MealInput) (*domain.Meal, error)
	DeleteMeal(ctx context.Context, id primitive.ObjectID) error

	CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context, category string) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error

	// Meal photo upload: the caller PUTs the file to the presigned URL
	// and then confirms the object key, which links it to the meal.
	RequestMealImageUploadURL(ctx context.Context, mealID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmMealImage(ctx context.Context, mealID primitive.ObjectID, objectKey string) (*domain.Meal, error)
	GetMealImageDownloadURL(ctx context.Context, mealID primitive.ObjectID) (string, error)
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	mealRepo     repository.MealRepository
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(
	mealRepo repository.MealRepository,
	exerciseRepo repository.ExerciseRepository,
	fileStorage storage.FileStorage,
) CatalogService {
	return &catalogService{
		mealRepo:     mealRepo,
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// === Meals ===

func (s *catalogService) CreateMeal(ctx context.Context, input MealInput) (*domain.Meal, error) {
	if input.Name == "" || input.Calories < 0 {
		return nil, ErrCatalogValidation
	}

	meal := &domain.Meal{
		Name:        input.Name,
		Category:    input.Category,
		Calories:    input.Calories,
		Protein:     input.Protein,
		Carbs:       input.Carbs,
		Fat:         input.Fat,
		Description: input.Description,
	}

	mealID, err := s.mealRepo.Create(ctx, meal)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	meal.ID = mealID
	return meal, nil
}

func (s *catalogService) GetMeal(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error) {
	meal, err := s.mealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, wrapRepoErr(err)
	}
	return meal, nil
}

func (s *catalogService) ListMeals(ctx context.Context, category string) ([]domain.Meal, error) {
	meals, err := s.mealRepo.List(ctx, category)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return meals, nil
}

func (s *catalogService) UpdateMeal(ctx context.Context, id primitive.ObjectID, input MealInput) (*domain.Meal, error) {
	if input.Name == "" || input.Calories < 0 {
		return nil, ErrCatalogValidation
	}

	meal, err := s.GetMeal(ctx, id)
	if err != nil {
		return nil, err
	}

	meal.Name = input.Name
	meal.Category = input.Category
	meal.Calories = input.Calories
	meal.Protein = input.Protein
	meal.Carbs = input.Carbs
	meal.Fat = input.Fat
	meal.Description = input.Description

	if err := s.mealRepo.Update(ctx, meal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, wrapRepoErr(err)
	}
	return meal, nil
}

func (s *catalogService) DeleteMeal(ctx context.Context, id primitive.ObjectID) error {
	err := s.mealRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMealNotFound
		}
		return wrapRepoErr(err)
	}
	return nil
}

// === Exercises ===

func (s *catalogService) CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" {
		return nil, ErrCatalogValidation
	}

	exercise := &domain.Exercise{
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		DefaultSets: input.DefaultSets,
		DefaultReps: input.DefaultReps,
		VideoURL:    input.VideoURL,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	exercise.ID = exerciseID
	return exercise, nil
}

func (s *catalogService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, wrapRepoErr(err)
	}
	return exercise, nil
}

func (s *catalogService) ListExercises(ctx context.Context, category string) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx, category)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return exercises, nil
}

func (s *catalogService) UpdateExercise(ctx context.Context, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" {
		return nil, ErrCatalogValidation
	}

	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	exercise.Name = input.Name
	exercise.Category = input.Category
	exercise.Description = input.Description
	exercise.DefaultSets = input.DefaultSets
	exercise.DefaultReps = input.DefaultReps
	exercise.VideoURL = input.VideoURL

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, wrapRepoErr(err)
	}
	return exercise, nil
}

func (s *catalogService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	err := s.exerciseRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return wrapRepoErr(err)
	}
	return nil
}

// === Meal images ===

// RequestMealImageUploadURL generates a pre-signed URL for uploading a
// meal photo directly to object storage.
func (s *catalogService) RequestMealImageUploadURL(ctx context.Context, mealID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	if _, err := s.GetMeal(ctx, mealID); err != nil {
		return nil, err
	}

	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("meals", mealID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrImageUploadURLError
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmMealImage links an uploaded object to the meal. Called after
// the client has successfully PUT the file to the presigned URL.
func (s *catalogService) ConfirmMealImage(ctx context.Context, mealID primitive.ObjectID, objectKey string) (*domain.Meal, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}

	meal, err := s.GetMeal(ctx, mealID)
	if err != nil {
		return nil, err
	}

	previousKey := meal.ImageKey
	meal.ImageKey = objectKey
	if err := s.mealRepo.Update(ctx, meal); err != nil {
		return nil, wrapRepoErr(err)
	}

	// Best effort cleanup of the replaced image.
	if previousKey != "" && previousKey != objectKey {
		_ = s.fileStorage.DeleteObject(ctx, previousKey)
	}
	return meal, nil
}

// GetMealImageDownloadURL generates a temporary URL for viewing a meal photo.
func (s *catalogService) GetMealImageDownloadURL(ctx context.Context, mealID primitive.ObjectID) (string, error) {
	meal, err := s.GetMeal(ctx, mealID)
	if err != nil {
		return "", err
	}
	if meal.ImageKey == "" {
		return "", ErrImageMissing
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, meal.ImageKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrImageUploadURLError
	}
	return downloadURL, nil
}
