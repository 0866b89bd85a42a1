package service

import (
	"alcyxob/coaching-app/internal/dateutil"
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrLoggedMealNotFound   = errors.New("logged meal not found")
	ErrLoggedMealForbidden  = errors.New("logged meal belongs to another trainee")
	ErrLoggedMealValidation = errors.New("logged meal validation failed")
	ErrInvalidWeight        = errors.New("weight must be positive")
)

// LoggedMealInput carries the fields a trainee provides when logging an
// ad-hoc meal. Nutrition is self-reported since there is no catalog row
// behind it.
type LoggedMealInput struct {
	Name     string
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
}

// LogService owns the trainee's own diary: ad-hoc logged meals and
// morning weight records. Logged-meal status changes feed the same
// daily totals as scheduled meals, so the mutating operations return
// the recomputed totals alongside the row.
type LogService interface {
	LogMeal(ctx context.Context, traineeID primitive.ObjectID, date time.Time, input LoggedMealInput) (*domain.LoggedMeal, *DayTotals, error)
	SetLoggedMealStatus(ctx context.Context, traineeID, loggedMealID primitive.ObjectID, status domain.MealStatus) (*domain.LoggedMeal, *DayTotals, error)
	RemoveLoggedMeal(ctx context.Context, traineeID, loggedMealID primitive.ObjectID) (*DayTotals, error)
	ListLoggedMeals(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]domain.LoggedMeal, error)

	RecordWeight(ctx context.Context, traineeID primitive.ObjectID, date time.Time, weightKg float64) (*domain.WeightRecord, error)
	ListWeights(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.WeightRecord, error)
}

// logService implements the LogService interface.
type logService struct {
	loggedMealRepo repository.LoggedMealRepository
	weightRepo     repository.WeightRepository
	progress       ProgressService
	clock          dateutil.Clock
}

// NewLogService creates a new instance of logService.
func NewLogService(
	loggedMealRepo repository.LoggedMealRepository,
	weightRepo repository.WeightRepository,
	progress ProgressService,
	clock dateutil.Clock,
) LogService {
	return &logService{
		loggedMealRepo: loggedMealRepo,
		weightRepo:     weightRepo,
		progress:       progress,
		clock:          clock,
	}
}

// LogMeal records an ad-hoc meal for a day. New entries start consumed:
// a trainee logging food they just ate should not have to flip the
// status afterwards.
func (s *logService) LogMeal(ctx context.Context, traineeID primitive.ObjectID, date time.Time, input LoggedMealInput) (*domain.LoggedMeal, *DayTotals, error) {
	if traineeID == primitive.NilObjectID {
		return nil, nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, ErrLoggedMealValidation
	}
	if input.Calories < 0 || input.Protein < 0 || input.Carbs < 0 || input.Fat < 0 {
		return nil, nil, ErrLoggedMealValidation
	}
	if date.IsZero() {
		date = s.clock.Now()
	}
	day := dateutil.DateOnly(date)

	now := s.clock.Now()
	meal := &domain.LoggedMeal{
		TraineeID: traineeID,
		Date:      day,
		Name:      strings.TrimSpace(input.Name),
		Calories:  input.Calories,
		Protein:   input.Protein,
		Carbs:     input.Carbs,
		Fat:       input.Fat,
		Status:    domain.MealConsumed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.loggedMealRepo.Create(ctx, meal)
	if err != nil {
		return nil, nil, wrapRepoErr(err)
	}
	meal.ID = id

	totals, err := s.progress.RecomputeDay(ctx, traineeID, day)
	if err != nil {
		return nil, nil, err
	}
	return meal, totals, nil
}

// SetLoggedMealStatus moves a logged meal between pending, consumed and
// skipped, in any direction, and returns the day's recomputed totals.
func (s *logService) SetLoggedMealStatus(ctx context.Context, traineeID, loggedMealID primitive.ObjectID, status domain.MealStatus) (*domain.LoggedMeal, *DayTotals, error) {
	if traineeID == primitive.NilObjectID {
		return nil, nil, ErrNotAuthenticated
	}
	if !status.Valid() {
		return nil, nil, ErrInvalidStatus
	}

	meal, err := s.getOwnedLoggedMeal(ctx, traineeID, loggedMealID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.loggedMealRepo.UpdateStatus(ctx, loggedMealID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrLoggedMealNotFound
		}
		return nil, nil, wrapRepoErr(err)
	}
	meal.Status = status
	meal.UpdatedAt = s.clock.Now()

	totals, err := s.progress.RecomputeDay(ctx, traineeID, meal.Date)
	if err != nil {
		return nil, nil, err
	}
	return meal, totals, nil
}

// RemoveLoggedMeal deletes a logged meal and returns the recomputed
// totals of the day it belonged to. Removing an already removed row is
// treated as not found because the day to recompute is no longer known.
func (s *logService) RemoveLoggedMeal(ctx context.Context, traineeID, loggedMealID primitive.ObjectID) (*DayTotals, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	meal, err := s.getOwnedLoggedMeal(ctx, traineeID, loggedMealID)
	if err != nil {
		return nil, err
	}

	if err := s.loggedMealRepo.Delete(ctx, loggedMealID); err != nil {
		return nil, wrapRepoErr(err)
	}
	return s.progress.RecomputeDay(ctx, traineeID, meal.Date)
}

// ListLoggedMeals returns the trainee's ad-hoc meals for one day.
func (s *logService) ListLoggedMeals(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]domain.LoggedMeal, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	meals, err := s.loggedMealRepo.GetByTraineeAndDate(ctx, traineeID, dateutil.DateOnly(date))
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if meals == nil {
		meals = []domain.LoggedMeal{}
	}
	return meals, nil
}

// RecordWeight stores the morning weigh-in for a day, overwriting a
// previous value for the same day.
func (s *logService) RecordWeight(ctx context.Context, traineeID primitive.ObjectID, date time.Time, weightKg float64) (*domain.WeightRecord, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}
	if weightKg <= 0 {
		return nil, ErrInvalidWeight
	}
	if date.IsZero() {
		date = s.clock.Now()
	}

	record, err := s.weightRepo.Upsert(ctx, traineeID, dateutil.DateOnly(date), weightKg)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return record, nil
}

// ListWeights returns weight records in [from, to], oldest first.
func (s *logService) ListWeights(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.WeightRecord, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	records, err := s.weightRepo.GetRange(ctx, traineeID, dateutil.DateOnly(from), dateutil.DateOnly(to))
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if records == nil {
		records = []domain.WeightRecord{}
	}
	return records, nil
}

// getOwnedLoggedMeal loads a logged meal and verifies ownership.
func (s *logService) getOwnedLoggedMeal(ctx context.Context, traineeID, loggedMealID primitive.ObjectID) (*domain.LoggedMeal, error) {
	meal, err := s.loggedMealRepo.GetByID(ctx, loggedMealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLoggedMealNotFound
		}
		return nil, wrapRepoErr(err)
	}
	if meal.TraineeID != traineeID {
		return nil, ErrLoggedMealForbidden
	}
	return meal, nil
}
