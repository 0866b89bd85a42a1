package service

import (
	"alcyxob/coaching-app/internal/dateutil"
	"alcyxob/coaching-app/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stepFixture struct {
	repo    *mockStepRepo
	clock   *fakeClock
	service StepService
	trainee primitive.ObjectID
}

func newStepFixture() *stepFixture {
	f := &stepFixture{
		repo:    newMockStepRepo(),
		clock:   newFakeClock(testNow),
		trainee: primitive.NewObjectID(),
	}
	f.service = NewStepService(f.repo, f.clock)
	return f
}

func TestRecordSteps_CreatesWithDefaultTarget(t *testing.T) {
	f := newStepFixture()
	ctx := context.Background()

	record, err := f.service.RecordSteps(ctx, f.trainee, testNow, 4200)
	require.NoError(t, err)
	assert.Equal(t, 4200, record.Steps)
	assert.Equal(t, domain.DefaultStepTarget, record.TargetSteps)
	assert.Equal(t, dateutil.DateOnly(testNow), record.Date)

	// Re-recording the same day overwrites the count, not the target.
	record, err = f.service.RecordSteps(ctx, f.trainee, testNow, 8000)
	require.NoError(t, err)
	assert.Equal(t, 8000, record.Steps)
	assert.Equal(t, domain.DefaultStepTarget, record.TargetSteps)
}

func TestRecordSteps_RejectsNegative(t *testing.T) {
	f := newStepFixture()
	_, err := f.service.RecordSteps(context.Background(), f.trainee, testNow, -1)
	assert.ErrorIs(t, err, ErrInvalidStepCount)
}

func TestGetDay_NotFound(t *testing.T) {
	f := newStepFixture()
	_, err := f.service.GetDay(context.Background(), f.trainee, testNow)
	assert.ErrorIs(t, err, ErrStepRecordNotFound)
}

func TestListWeek_OnlyContainingWeek(t *testing.T) {
	f := newStepFixture()
	ctx := context.Background()

	// testNow is Wednesday 2025-03-12; its week is Mar 9 through Mar 15.
	inWeek := []time.Time{
		time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	outOfWeek := []time.Time{
		time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range append(inWeek, outOfWeek...) {
		_, err := f.service.RecordSteps(ctx, f.trainee, d, 1000)
		require.NoError(t, err)
	}

	records, err := f.service.ListWeek(ctx, f.trainee, testNow)
	require.NoError(t, err)
	assert.Len(t, records, len(inWeek))
}

func TestUpdateStepTarget_RangeValidation(t *testing.T) {
	f := newStepFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.service.UpdateStepTarget(ctx, f.trainee, domain.MinStepTarget-1), ErrInvalidStepTarget)
	assert.ErrorIs(t, f.service.UpdateStepTarget(ctx, f.trainee, domain.MaxStepTarget+1), ErrInvalidStepTarget)
	assert.ErrorIs(t, f.service.UpdateStepTarget(ctx, f.trainee, 0), ErrInvalidStepTarget)

	// The bounds themselves are legal.
	assert.NoError(t, f.service.UpdateStepTarget(ctx, f.trainee, domain.MinStepTarget))
	assert.NoError(t, f.service.UpdateStepTarget(ctx, f.trainee, domain.MaxStepTarget))
}

// A target change reaches today and the future but never rewrites what
// past days were measured against.
func TestUpdateStepTarget_PropagatesForwardOnly(t *testing.T) {
	f := newStepFixture()
	ctx := context.Background()
	today := dateutil.DateOnly(testNow)

	days := []time.Time{
		today.AddDate(0, 0, -2),
		today.AddDate(0, 0, -1),
		today,
		today.AddDate(0, 0, 1),
	}
	for _, d := range days {
		_, err := f.service.RecordSteps(ctx, f.trainee, d, 5000)
		require.NoError(t, err)
	}

	require.NoError(t, f.service.UpdateStepTarget(ctx, f.trainee, 8000))

	expected := map[time.Time]int{
		days[0]: domain.DefaultStepTarget,
		days[1]: domain.DefaultStepTarget,
		days[2]: 8000,
		days[3]: 8000,
	}
	for day, target := range expected {
		record, err := f.service.GetDay(ctx, f.trainee, day)
		require.NoError(t, err)
		assert.Equal(t, target, record.TargetSteps, "target for %s", day.Format("2006-01-02"))
		assert.Equal(t, 5000, record.Steps, "steps must be untouched for %s", day.Format("2006-01-02"))
	}
}

// Changing the target before any steps were recorded today still
// materializes today's record, so the new goal is visible immediately.
func TestUpdateStepTarget_CreatesTodayRecord(t *testing.T) {
	f := newStepFixture()
	ctx := context.Background()

	require.NoError(t, f.service.UpdateStepTarget(ctx, f.trainee, 12000))

	record, err := f.service.GetDay(ctx, f.trainee, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, record.Steps)
	assert.Equal(t, 12000, record.TargetSteps)
}

func TestStepService_RequiresTrainee(t *testing.T) {
	f := newStepFixture()
	ctx := context.Background()

	_, err := f.service.RecordSteps(ctx, primitive.NilObjectID, testNow, 100)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	err = f.service.UpdateStepTarget(ctx, primitive.NilObjectID, 5000)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
