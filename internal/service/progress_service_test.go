package service

import (
	"alcyxob/coaching-app/internal/dateutil"
	"alcyxob/coaching-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecomputeDay_FoldsScheduledAndLoggedMeals(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	oatmeal := f.addMeal(t, "Oatmeal", 350)
	salad := f.addMeal(t, "Salad", 200)
	schedule, err := f.schedule.GetOrCreateSchedule(ctx, f.traineeID, testNow)
	require.NoError(t, err)

	a1, err := f.schedule.AssignMeal(ctx, schedule.ID, oatmeal.ID, 3, domain.TimingBreakfast)
	require.NoError(t, err)
	a2, err := f.schedule.AssignMeal(ctx, schedule.ID, salad.ID, 3, domain.TimingLunch)
	require.NoError(t, err)

	_, _, err = f.schedule.SetMealStatus(ctx, a1.ID, domain.MealConsumed)
	require.NoError(t, err)
	_, _, err = f.schedule.SetMealStatus(ctx, a2.ID, domain.MealSkipped)
	require.NoError(t, err)

	day := dateutil.DayOfWeekDate(schedule.WeekStartDate, 3)
	_, err = f.loggedMealRepo.Create(ctx, &domain.LoggedMeal{
		TraineeID: f.traineeID,
		Date:      day,
		Name:      "Protein bar",
		Calories:  180,
		Status:    domain.MealConsumed,
	})
	require.NoError(t, err)
	// Pending logged meals contribute nothing.
	_, err = f.loggedMealRepo.Create(ctx, &domain.LoggedMeal{
		TraineeID: f.traineeID,
		Date:      day,
		Name:      "Late snack",
		Calories:  500,
		Status:    domain.MealPending,
	})
	require.NoError(t, err)

	totals, err := f.progress.RecomputeDay(ctx, f.traineeID, day)
	require.NoError(t, err)
	assert.Equal(t, &DayTotals{TotalCalories: 530, CompletedCount: 2}, totals)
}

// Flipping a status back and forth must leave no residue: the totals
// depend only on the final state, never on the path taken to it.
func TestRecomputeDay_ReversalsLeaveNoResidue(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	meal := f.addMeal(t, "Oatmeal", 350)
	schedule, err := f.schedule.GetOrCreateSchedule(ctx, f.traineeID, testNow)
	require.NoError(t, err)
	assignment, err := f.schedule.AssignMeal(ctx, schedule.ID, meal.ID, 2, domain.TimingBreakfast)
	require.NoError(t, err)

	sequence := []domain.MealStatus{
		domain.MealConsumed, domain.MealSkipped, domain.MealConsumed,
		domain.MealPending, domain.MealConsumed, domain.MealSkipped,
		domain.MealConsumed,
	}
	var totals *DayTotals
	for _, status := range sequence {
		_, totals, err = f.schedule.SetMealStatus(ctx, assignment.ID, status)
		require.NoError(t, err)
	}

	// Seven flips ending in consumed equals consuming once.
	assert.Equal(t, &DayTotals{TotalCalories: 350, CompletedCount: 1}, totals)
}

func TestRecomputeDay_MissingScheduleContributesNothing(t *testing.T) {
	f := newScheduleFixture()
	totals, err := f.progress.RecomputeDay(context.Background(), f.traineeID, testNow)
	require.NoError(t, err)
	assert.Equal(t, &DayTotals{}, totals)
}

func TestDayPerformance_CountsMealsAndExercises(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	meal := f.addMeal(t, "Oatmeal", 350)
	exercise := f.addExercise(t, "Squat", "legs")
	schedule, err := f.schedule.GetOrCreateSchedule(ctx, f.traineeID, testNow)
	require.NoError(t, err)

	a1, err := f.schedule.AssignMeal(ctx, schedule.ID, meal.ID, 2, domain.TimingBreakfast)
	require.NoError(t, err)
	_, err = f.schedule.AssignMeal(ctx, schedule.ID, meal.ID, 2, domain.TimingDinner)
	require.NoError(t, err)
	e1, err := f.schedule.AssignExercise(ctx, schedule.ID, exercise.ID, 2, 3, 12)
	require.NoError(t, err)
	_, err = f.schedule.AssignExercise(ctx, schedule.ID, exercise.ID, 2, 5, 5)
	require.NoError(t, err)

	_, _, err = f.schedule.SetMealStatus(ctx, a1.ID, domain.MealConsumed)
	require.NoError(t, err)
	_, err = f.schedule.SetExerciseStatus(ctx, e1.ID, domain.ExerciseCompleted)
	require.NoError(t, err)

	day := dateutil.DayOfWeekDate(schedule.WeekStartDate, 2)
	perf, err := f.progress.DayPerformance(ctx, f.traineeID, day)
	require.NoError(t, err)
	assert.Equal(t, 1, perf.CompletedMeals)
	assert.Equal(t, 2, perf.TotalMeals)
	assert.Equal(t, 1, perf.CompletedExercises)
	assert.Equal(t, 2, perf.TotalExercises)
	assert.Equal(t, 50, perf.ProgressPct)
}

func TestRecomputeStepProgress_AbsentDayReadsAsDefault(t *testing.T) {
	f := newScheduleFixture()
	progress, err := f.progress.RecomputeStepProgress(context.Background(), f.traineeID, testNow)
	require.NoError(t, err)
	assert.Equal(t, &StepProgress{Steps: 0, TargetSteps: domain.DefaultStepTarget, ProgressPct: 0}, progress)
}

func TestRecomputeStepProgress_UsesRecordedTarget(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	day := dateutil.DateOnly(testNow)
	_, err := f.stepRepo.UpsertSteps(ctx, f.traineeID, day, 4500, domain.DefaultStepTarget)
	require.NoError(t, err)
	require.NoError(t, f.stepRepo.SetTargetFrom(ctx, f.traineeID, day, 6000))

	progress, err := f.progress.RecomputeStepProgress(ctx, f.traineeID, day)
	require.NoError(t, err)
	assert.Equal(t, &StepProgress{Steps: 4500, TargetSteps: 6000, ProgressPct: 75}, progress)
}

func TestWeekTotals_PlacesDaysByIndex(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	meal := f.addMeal(t, "Oatmeal", 350)
	schedule, err := f.schedule.GetOrCreateSchedule(ctx, f.traineeID, testNow)
	require.NoError(t, err)
	assignment, err := f.schedule.AssignMeal(ctx, schedule.ID, meal.ID, 4, domain.TimingLunch)
	require.NoError(t, err)
	_, _, err = f.schedule.SetMealStatus(ctx, assignment.ID, domain.MealConsumed)
	require.NoError(t, err)

	week, err := f.progress.WeekTotals(ctx, f.traineeID, testNow)
	require.NoError(t, err)
	require.Len(t, week, 7)
	for i, totals := range week {
		if i == 4 {
			assert.Equal(t, DayTotals{TotalCalories: 350, CompletedCount: 1}, totals)
		} else {
			assert.Equal(t, DayTotals{}, totals, "day %d should be empty", i)
		}
	}
}

func TestBoundedPct(t *testing.T) {
	tests := []struct {
		name string
		have int
		want int
		pct  int
	}{
		{"zero progress", 0, 3000, 0},
		{"negative progress", -5, 100, 0},
		{"zero target", 500, 0, 0},
		{"negative target", 500, -1, 0},
		{"half", 50, 100, 50},
		{"rounds down", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"exact", 3000, 3000, 100},
		{"overachievement clamps", 15000, 3000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pct, BoundedPct(tt.have, tt.want))
		})
	}
}

func TestRecomputeDay_RequiresTrainee(t *testing.T) {
	f := newScheduleFixture()
	_, err := f.progress.RecomputeDay(context.Background(), primitive.NilObjectID, testNow)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
