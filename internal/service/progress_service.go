package service

import (
	"alcyxob/coaching-app/internal/dateutil"
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayTotals are the derived numbers for one day of the diet program.
type DayTotals struct {
	TotalCalories  int `json:"totalCalories"`
	CompletedCount int `json:"completedCount"`
}

// DayPerformance is the broader adherence picture of one day, covering
// meals (scheduled and ad-hoc) and exercises.
type DayPerformance struct {
	CompletedMeals     int `json:"completedMeals"`
	TotalMeals         int `json:"totalMeals"`
	CompletedExercises int `json:"completedExercises"`
	TotalExercises     int `json:"totalExercises"`
	ProgressPct        int `json:"progressPct"`
}

// StepProgress is the derived step-goal state for one day.
type StepProgress struct {
	Steps       int `json:"steps"`
	TargetSteps int `json:"targetSteps"`
	ProgressPct int `json:"progressPct"`
}

// ProgressService recomputes every derived number from the current
// stored state. Nothing here increments counters: a recomputation
// after N arbitrary status flips must equal a recomputation after the
// minimal equivalent sequence, so folding over live rows is the only
// allowed implementation.
type ProgressService interface {
	RecomputeDay(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*DayTotals, error)
	DayPerformance(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*DayPerformance, error)
	RecomputeStepProgress(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*StepProgress, error)
	WeekTotals(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]DayTotals, error)
}

// progressService implements the ProgressService interface.
type progressService struct {
	scheduleRepo   repository.ScheduleRepository
	mealAssignRepo repository.MealAssignmentRepository
	exAssignRepo   repository.ExerciseAssignmentRepository
	mealRepo       repository.MealRepository
	loggedMealRepo repository.LoggedMealRepository
	stepRepo       repository.StepRepository
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	scheduleRepo repository.ScheduleRepository,
	mealAssignRepo repository.MealAssignmentRepository,
	exAssignRepo repository.ExerciseAssignmentRepository,
	mealRepo repository.MealRepository,
	loggedMealRepo repository.LoggedMealRepository,
	stepRepo repository.StepRepository,
) ProgressService {
	return &progressService{
		scheduleRepo:   scheduleRepo,
		mealAssignRepo: mealAssignRepo,
		exAssignRepo:   exAssignRepo,
		mealRepo:       mealRepo,
		loggedMealRepo: loggedMealRepo,
		stepRepo:       stepRepo,
	}
}

// RecomputeDay folds the current state of one day into calorie and
// completion totals: consumed scheduled meals (calories resolved from
// the catalog) plus consumed ad-hoc logged meals. A missing schedule
// simply contributes nothing.
func (s *progressService) RecomputeDay(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*DayTotals, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	day := dateutil.DateOnly(date)
	totals := &DayTotals{}

	scheduled, err := s.dayMealAssignments(ctx, traineeID, day)
	if err != nil {
		return nil, err
	}
	if len(scheduled) > 0 {
		ids := make([]primitive.ObjectID, 0, len(scheduled))
		for _, a := range scheduled {
			if a.Status == domain.MealConsumed {
				ids = append(ids, a.MealID)
			}
		}
		meals, err := s.mealRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, wrapRepoErr(err)
		}
		caloriesByID := make(map[primitive.ObjectID]int, len(meals))
		for _, m := range meals {
			caloriesByID[m.ID] = m.Calories
		}
		for _, a := range scheduled {
			if a.Status != domain.MealConsumed {
				continue
			}
			totals.TotalCalories += caloriesByID[a.MealID]
			totals.CompletedCount++
		}
	}

	logged, err := s.loggedMealRepo.GetByTraineeAndDate(ctx, traineeID, day)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	for _, m := range logged {
		if m.Status != domain.MealConsumed {
			continue
		}
		totals.TotalCalories += m.Calories
		totals.CompletedCount++
	}

	return totals, nil
}

// DayPerformance reports completion counts for one day across meals
// and exercises, with an overall percentage.
func (s *progressService) DayPerformance(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*DayPerformance, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	day := dateutil.DateOnly(date)
	perf := &DayPerformance{}

	scheduled, err := s.dayMealAssignments(ctx, traineeID, day)
	if err != nil {
		return nil, err
	}
	for _, a := range scheduled {
		perf.TotalMeals++
		if a.Status == domain.MealConsumed {
			perf.CompletedMeals++
		}
	}

	logged, err := s.loggedMealRepo.GetByTraineeAndDate(ctx, traineeID, day)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	for _, m := range logged {
		perf.TotalMeals++
		if m.Status == domain.MealConsumed {
			perf.CompletedMeals++
		}
	}

	exercises, err := s.dayExerciseAssignments(ctx, traineeID, day)
	if err != nil {
		return nil, err
	}
	for _, a := range exercises {
		perf.TotalExercises++
		if a.Status == domain.ExerciseCompleted {
			perf.CompletedExercises++
		}
	}

	perf.ProgressPct = BoundedPct(perf.CompletedMeals+perf.CompletedExercises, perf.TotalMeals+perf.TotalExercises)
	return perf, nil
}

// RecomputeStepProgress derives the step-goal state for one day. A day
// with no record yet reads as zero steps against the default target.
func (s *progressService) RecomputeStepProgress(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*StepProgress, error) {
	if traineeID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	record, err := s.stepRepo.GetByTraineeAndDate(ctx, traineeID, dateutil.DateOnly(date))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &StepProgress{TargetSteps: domain.DefaultStepTarget}, nil
		}
		return nil, wrapRepoErr(err)
	}

	return &StepProgress{
		Steps:       record.Steps,
		TargetSteps: record.TargetSteps,
		ProgressPct: BoundedPct(record.Steps, record.TargetSteps),
	}, nil
}

// WeekTotals recomputes every day of the week containing date, Sunday
// first.
func (s *progressService) WeekTotals(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]DayTotals, error) {
	weekStart := dateutil.WeekStart(date)
	week := make([]DayTotals, 7)
	for i := 0; i < 7; i++ {
		totals, err := s.RecomputeDay(ctx, traineeID, dateutil.DayOfWeekDate(weekStart, i))
		if err != nil {
			return nil, err
		}
		week[i] = *totals
	}
	return week, nil
}

// BoundedPct computes round(100 * have / want) clamped to [0, 100].
// A non-positive denominator reads as no progress instead of a
// division error.
func BoundedPct(have, want int) int {
	if want <= 0 || have <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(have) / float64(want)))
	if pct > 100 {
		return 100
	}
	return pct
}

// === helpers ===

func (s *progressService) dayMealAssignments(ctx context.Context, traineeID primitive.ObjectID, day time.Time) ([]domain.MealAssignment, error) {
	schedule, err := s.scheduleRepo.GetByTraineeAndWeek(ctx, traineeID, dateutil.WeekStart(day))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, wrapRepoErr(err)
	}
	assignments, err := s.mealAssignRepo.GetByScheduleAndDay(ctx, schedule.ID, dateutil.DayIndex(day))
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return assignments, nil
}

func (s *progressService) dayExerciseAssignments(ctx context.Context, traineeID primitive.ObjectID, day time.Time) ([]domain.ExerciseAssignment, error) {
	schedule, err := s.scheduleRepo.GetByTraineeAndWeek(ctx, traineeID, dateutil.WeekStart(day))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, wrapRepoErr(err)
	}
	assignments, err := s.exAssignRepo.GetByScheduleAndDay(ctx, schedule.ID, dateutil.DayIndex(day))
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return assignments, nil
}
