package service

import (
	"alcyxob/coaching-app/internal/dateutil"
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrStepRecordNotFound = errors.New("step record not found")
	ErrInvalidStepCount   = errors.New("step count cannot be negative")
	ErrInvalidStepTarget  = errors.New("step target out of allowed range")
)

// StepService owns daily step records and the target propagation that
// applies a new goal to today and the future while leaving history
// untouched.
type StepService interface {
	RecordSteps(ctx context.Context, traineeID primitive.ObjectID, date time.Time, steps int) (*domain.StepRecord, error)
	GetDay(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*domain.StepRecord, error)
	ListWeek(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]domain.StepRecord, error)
	UpdateStepTarget(ctx context.Context, traineeID primitive.ObjectID, newTarget int) error
}

// stepService implements the StepService interface.
type stepService struct {
	stepRepo repository.StepRepository
	clock    dateutil.Clock
}

// NewStepService creates a new instance of stepService.
func NewStepService(stepRepo repository.StepRepository, clock dateutil.Clock) StepService {
	return &stepService{
		stepRepo: stepRepo,
		clock:    clock,
	}
}

// RecordSteps sets the step count for a day, creating the day's record
// with the default target on first write.
func (s *stepService) RecordSteps(ctx context.Context, traineeID primitive.ObjectID, date time.Time, steps int) (*domain.StepRecord, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}
	if steps < 0 {
		return nil, ErrInvalidStepCount
	}
	if date.IsZero() {
		date = s.clock.Now()
	}

	record, err := s.stepRepo.UpsertSteps(ctx, traineeID, dateutil.DateOnly(date), steps, domain.DefaultStepTarget)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return record, nil
}

// GetDay returns the step record for one day.
func (s *stepService) GetDay(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*domain.StepRecord, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	record, err := s.stepRepo.GetByTraineeAndDate(ctx, traineeID, dateutil.DateOnly(date))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStepRecordNotFound
		}
		return nil, wrapRepoErr(err)
	}
	return record, nil
}

// ListWeek returns the step records of the week containing date.
// Days without a record are simply absent from the result.
func (s *stepService) ListWeek(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]domain.StepRecord, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	weekStart := dateutil.WeekStart(date)
	weekEnd := dateutil.DayOfWeekDate(weekStart, 6)
	records, err := s.stepRepo.GetRange(ctx, traineeID, weekStart, weekEnd)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return records, nil
}

// UpdateStepTarget propagates a new goal to today and every future
// record, creating today's record if this is the first activity of the
// day. Past records keep the target they were earned against. The
// range update runs as one store operation, so a reader immediately
// afterwards never sees a half-applied propagation.
func (s *stepService) UpdateStepTarget(ctx context.Context, traineeID primitive.ObjectID, newTarget int) error {
	if traineeID == primitive.NilObjectID {
		return ErrNotAuthenticated
	}
	if newTarget < domain.MinStepTarget || newTarget > domain.MaxStepTarget {
		return ErrInvalidStepTarget
	}

	today := dateutil.DateOnly(s.clock.Now())
	if err := s.stepRepo.EnsureRecord(ctx, traineeID, today, newTarget); err != nil {
		return wrapRepoErr(err)
	}
	if err := s.stepRepo.SetTargetFrom(ctx, traineeID, today, newTarget); err != nil {
		return wrapRepoErr(err)
	}
	return nil
}
