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
	ErrScheduleNotFound   = errors.New("weekly schedule not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrInvalidDayOfWeek   = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTiming      = errors.New("unknown meal timing")
	ErrInvalidStatus      = errors.New("unknown assignment status")
	ErrInvalidSetsReps    = errors.New("sets and reps must be positive")
)

// MealAssignmentDetails is a meal assignment with its catalog fields
// resolved at read time. The nutrition numbers always come from the
// catalog row, never from a stored copy.
type MealAssignmentDetails struct {
	domain.MealAssignment
	MealName string  `json:"mealName"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DayMeals groups one day's meal assignments into the four timing
// buckets. Empty buckets are present, not omitted.
type DayMeals struct {
	Breakfast []MealAssignmentDetails `json:"breakfast"`
	Lunch     []MealAssignmentDetails `json:"lunch"`
	Dinner    []MealAssignmentDetails `json:"dinner"`
	Snack     []MealAssignmentDetails `json:"snack"`
}

// ExerciseAssignmentDetails is an exercise assignment with its catalog
// fields resolved.
type ExerciseAssignmentDetails struct {
	domain.ExerciseAssignment
	ExerciseName     string `json:"exerciseName"`
	ExerciseCategory string `json:"exerciseCategory"`
}

// ScheduleService is the write/read surface of the weekly program:
// lazy schedule lookup plus attaching, detaching and status-tracking
// of the items inside its slots. Every status mutation reports back
// the freshly recomputed day totals.
type ScheduleService interface {
	GetOrCreateSchedule(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*domain.WeeklySchedule, error)

	AssignMeal(ctx context.Context, scheduleID, mealID primitive.ObjectID, dayOfWeek int, timing domain.MealTiming) (*domain.MealAssignment, error)
	RemoveMeal(ctx context.Context, assignmentID primitive.ObjectID) error
	SetMealStatus(ctx context.Context, assignmentID primitive.ObjectID, status domain.MealStatus) (*domain.MealAssignment, *DayTotals, error)
	ListDayMeals(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) (*DayMeals, error)

	AssignExercise(ctx context.Context, scheduleID, exerciseID primitive.ObjectID, dayOfWeek, sets, reps int) (*domain.ExerciseAssignment, error)
	RemoveExercise(ctx context.Context, assignmentID primitive.ObjectID) error
	SetExerciseStatus(ctx context.Context, assignmentID primitive.ObjectID, status domain.ExerciseStatus) (*domain.ExerciseAssignment, error)
	ListDayExercises(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]ExerciseAssignmentDetails, error)
}

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	scheduleRepo   repository.ScheduleRepository
	mealAssignRepo repository.MealAssignmentRepository
	exAssignRepo   repository.ExerciseAssignmentRepository
	mealRepo       repository.MealRepository
	exerciseRepo   repository.ExerciseRepository
	progress       ProgressService
	clock          dateutil.Clock
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	scheduleRepo repository.ScheduleRepository,
	mealAssignRepo repository.MealAssignmentRepository,
	exAssignRepo repository.ExerciseAssignmentRepository,
	mealRepo repository.MealRepository,
	exerciseRepo repository.ExerciseRepository,
	progress ProgressService,
	clock dateutil.Clock,
) ScheduleService {
	return &scheduleService{
		scheduleRepo:   scheduleRepo,
		mealAssignRepo: mealAssignRepo,
		exAssignRepo:   exAssignRepo,
		mealRepo:       mealRepo,
		exerciseRepo:   exerciseRepo,
		progress:       progress,
		clock:          clock,
	}
}

// GetOrCreateSchedule returns the schedule covering date for the
// trainee, creating it on first access. Any date within the week maps
// to the same schedule because the lookup key is the normalized
// week-start Sunday.
func (s *scheduleService) GetOrCreateSchedule(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*domain.WeeklySchedule, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	weekStart := dateutil.WeekStart(date)
	schedule, err := s.scheduleRepo.GetOrCreate(ctx, traineeID, weekStart)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return schedule, nil
}

// === Meal assignments ===

// AssignMeal attaches a catalog meal to a slot of the schedule. The
// same meal may be assigned to the same slot twice; a trainee eating a
// meal twice a day is not a conflict.
func (s *scheduleService) AssignMeal(ctx context.Context, scheduleID, mealID primitive.ObjectID, dayOfWeek int, timing domain.MealTiming) (*domain.MealAssignment, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	if !timing.Valid() {
		return nil, ErrInvalidTiming
	}

	if _, err := s.getSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	if _, err := s.mealRepo.GetByID(ctx, mealID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, wrapRepoErr(err)
	}

	assignment := &domain.MealAssignment{
		ScheduleID: scheduleID,
		MealID:     mealID,
		DayOfWeek:  dayOfWeek,
		Timing:     timing,
		Status:     domain.MealPending,
	}

	assignmentID, err := s.mealAssignRepo.Create(ctx, assignment)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	assignment.ID = assignmentID
	return assignment, nil
}

// RemoveMeal hard-deletes a meal assignment. Removing an id that is
// already gone is a no-op, which keeps double-tapped deletes harmless.
func (s *scheduleService) RemoveMeal(ctx context.Context, assignmentID primitive.ObjectID) error {
	return wrapRepoErr(s.mealAssignRepo.Delete(ctx, assignmentID))
}

// SetMealStatus records adherence for one scheduled meal and
// recomputes the affected day's totals from scratch. All transitions
// between pending, consumed and skipped are legal; returning to
// pending clears the status stamp.
func (s *scheduleService) SetMealStatus(ctx context.Context, assignmentID primitive.ObjectID, status domain.MealStatus) (*domain.MealAssignment, *DayTotals, error) {
	if !status.Valid() {
		return nil, nil, ErrInvalidStatus
	}

	assignment, err := s.mealAssignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrAssignmentNotFound
		}
		return nil, nil, wrapRepoErr(err)
	}

	schedule, err := s.getSchedule(ctx, assignment.ScheduleID)
	if err != nil {
		return nil, nil, err
	}

	var statusChangedAt *time.Time
	if status != domain.MealPending {
		now := s.clock.Now()
		statusChangedAt = &now
	}

	if err := s.mealAssignRepo.UpdateStatus(ctx, assignmentID, status, statusChangedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrAssignmentNotFound
		}
		return nil, nil, wrapRepoErr(err)
	}
	assignment.Status = status
	assignment.StatusChangedAt = statusChangedAt

	date := dateutil.DayOfWeekDate(schedule.WeekStartDate, assignment.DayOfWeek)
	totals, err := s.progress.RecomputeDay(ctx, schedule.TraineeID, date)
	if err != nil {
		return nil, nil, err
	}
	return assignment, totals, nil
}

// ListDayMeals returns one day of the schedule grouped by timing, with
// catalog fields resolved. Assignments whose meal has since been
// deleted from the catalog are skipped rather than failing the read.
func (s *scheduleService) ListDayMeals(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) (*DayMeals, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	if _, err := s.getSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	assignments, err := s.mealAssignRepo.GetByScheduleAndDay(ctx, scheduleID, dayOfWeek)
	if err != nil {
		return nil, wrapRepoErr(err)
	}

	mealsByID, err := s.resolveMeals(ctx, assignments)
	if err != nil {
		return nil, err
	}

	day := &DayMeals{
		Breakfast: []MealAssignmentDetails{},
		Lunch:     []MealAssignmentDetails{},
		Dinner:    []MealAssignmentDetails{},
		Snack:     []MealAssignmentDetails{},
	}
	for _, a := range assignments {
		meal, ok := mealsByID[a.MealID]
		if !ok {
			continue
		}
		details := MealAssignmentDetails{
			MealAssignment: a,
			MealName:       meal.Name,
			Calories:       meal.Calories,
			Protein:        meal.Protein,
			Carbs:          meal.Carbs,
			Fat:            meal.Fat,
		}
		switch a.Timing {
		case domain.TimingBreakfast:
			day.Breakfast = append(day.Breakfast, details)
		case domain.TimingLunch:
			day.Lunch = append(day.Lunch, details)
		case domain.TimingDinner:
			day.Dinner = append(day.Dinner, details)
		case domain.TimingSnack:
			day.Snack = append(day.Snack, details)
		}
	}
	return day, nil
}

// === Exercise assignments ===

// AssignExercise attaches a catalog exercise to a day of the schedule.
func (s *scheduleService) AssignExercise(ctx context.Context, scheduleID, exerciseID primitive.ObjectID, dayOfWeek, sets, reps int) (*domain.ExerciseAssignment, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	if sets <= 0 || reps <= 0 {
		return nil, ErrInvalidSetsReps
	}

	if _, err := s.getSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, wrapRepoErr(err)
	}

	assignment := &domain.ExerciseAssignment{
		ScheduleID: scheduleID,
		ExerciseID: exerciseID,
		DayOfWeek:  dayOfWeek,
		Sets:       sets,
		Reps:       reps,
		Status:     domain.ExercisePending,
	}

	assignmentID, err := s.exAssignRepo.Create(ctx, assignment)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	assignment.ID = assignmentID
	return assignment, nil
}

// RemoveExercise hard-deletes an exercise assignment; idempotent.
func (s *scheduleService) RemoveExercise(ctx context.Context, assignmentID primitive.ObjectID) error {
	return wrapRepoErr(s.exAssignRepo.Delete(ctx, assignmentID))
}

// SetExerciseStatus records completion for one scheduled exercise.
func (s *scheduleService) SetExerciseStatus(ctx context.Context, assignmentID primitive.ObjectID, status domain.ExerciseStatus) (*domain.ExerciseAssignment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	assignment, err := s.exAssignRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, wrapRepoErr(err)
	}

	var statusChangedAt *time.Time
	if status != domain.ExercisePending {
		now := s.clock.Now()
		statusChangedAt = &now
	}

	if err := s.exAssignRepo.UpdateStatus(ctx, assignmentID, status, statusChangedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, wrapRepoErr(err)
	}
	assignment.Status = status
	assignment.StatusChangedAt = statusChangedAt
	return assignment, nil
}

// ListDayExercises returns one day's exercise assignments with catalog
// fields resolved.
func (s *scheduleService) ListDayExercises(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]ExerciseAssignmentDetails, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	if _, err := s.getSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	assignments, err := s.exAssignRepo.GetByScheduleAndDay(ctx, scheduleID, dayOfWeek)
	if err != nil {
		return nil, wrapRepoErr(err)
	}

	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ExerciseID)
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	byID := make(map[primitive.ObjectID]domain.Exercise, len(exercises))
	for _, e := range exercises {
		byID[e.ID] = e
	}

	details := make([]ExerciseAssignmentDetails, 0, len(assignments))
	for _, a := range assignments {
		exercise, ok := byID[a.ExerciseID]
		if !ok {
			continue
		}
		details = append(details, ExerciseAssignmentDetails{
			ExerciseAssignment: a,
			ExerciseName:       exercise.Name,
			ExerciseCategory:   exercise.Category,
		})
	}
	return details, nil
}

// === helpers ===

func (s *scheduleService) getSchedule(ctx context.Context, scheduleID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, wrapRepoErr(err)
	}
	return schedule, nil
}

func (s *scheduleService) resolveMeals(ctx context.Context, assignments []domain.MealAssignment) (map[primitive.ObjectID]domain.Meal, error) {
	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.MealID)
	}
	meals, err := s.mealRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	byID := make(map[primitive.ObjectID]domain.Meal, len(meals))
	for _, m := range meals {
		byID[m.ID] = m
	}
	return byID, nil
}
