package repository

import (
	"alcyxob/coaching-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer. Services match on these
// with errors.Is and translate them into their own taxonomy.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrDuplicateKey signals a unique-index collision, e.g. two
	// concurrent first-time creations of the same weekly schedule.
	ErrDuplicateKey = RepositoryError("duplicate key")
	// ErrStoreUnavailable means the backing store could not be
	// reached at all, as opposed to a row simply being absent.
	ErrStoreUnavailable = RepositoryError("store unavailable")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetByRole returns one user with the given role. Used to locate
	// the trainer in a single-trainer deployment without hardcoding
	// an identifying email.
	GetByRole(ctx context.Context, role domain.Role) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// MealRepository defines the interface for the meal catalog.
type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Meal, error)
	List(ctx context.Context, category string) ([]domain.Meal, error)
	Update(ctx context.Context, meal *domain.Meal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	List(ctx context.Context, category string) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ScheduleRepository owns one WeeklySchedule per (trainee, weekStart).
type ScheduleRepository interface {
	// GetOrCreate returns the schedule for the given trainee and
	// normalized week-start date, inserting it on first access. A
	// concurrent duplicate insert must resolve to the winner's row
	// rather than surfacing an error to the caller.
	GetOrCreate(ctx context.Context, traineeID primitive.ObjectID, weekStart time.Time) (*domain.WeeklySchedule, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklySchedule, error)
	GetByTraineeAndWeek(ctx context.Context, traineeID primitive.ObjectID, weekStart time.Time) (*domain.WeeklySchedule, error)
}

// MealAssignmentRepository stores the meal rows inside schedule slots.
type MealAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.MealAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MealAssignment, error)
	GetByScheduleID(ctx context.Context, scheduleID primitive.ObjectID) ([]domain.MealAssignment, error)
	GetByScheduleAndDay(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]domain.MealAssignment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MealStatus, statusChangedAt *time.Time) error
	// Delete hard-deletes the row. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseAssignmentRepository stores the exercise rows of a schedule.
type ExerciseAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.ExerciseAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseAssignment, error)
	GetByScheduleID(ctx context.Context, scheduleID primitive.ObjectID) ([]domain.ExerciseAssignment, error)
	GetByScheduleAndDay(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]domain.ExerciseAssignment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ExerciseStatus, statusChangedAt *time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// LoggedMealRepository stores ad-hoc meals logged outside the schedule.
type LoggedMealRepository interface {
	Create(ctx context.Context, meal *domain.LoggedMeal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LoggedMeal, error)
	GetByTraineeAndDate(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]domain.LoggedMeal, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MealStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// StepRepository stores one step record per (trainee, date).
type StepRepository interface {
	GetByTraineeAndDate(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*domain.StepRecord, error)
	GetRange(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.StepRecord, error)
	// UpsertSteps sets the step count for a date, creating the record
	// with defaultTarget if it does not exist yet.
	UpsertSteps(ctx context.Context, traineeID primitive.ObjectID, date time.Time, steps, defaultTarget int) (*domain.StepRecord, error)
	// EnsureRecord creates the record for a date with zero steps and
	// the given target if it is absent, and leaves it alone otherwise.
	EnsureRecord(ctx context.Context, traineeID primitive.ObjectID, date time.Time, target int) error
	// SetTargetFrom applies target to every record of the trainee
	// with date >= from, in a single store operation.
	SetTargetFrom(ctx context.Context, traineeID primitive.ObjectID, from time.Time, target int) error
}

// WeightRepository stores one morning weight record per (trainee, date).
type WeightRepository interface {
	Upsert(ctx context.Context, traineeID primitive.ObjectID, date time.Time, weightKg float64) (*domain.WeightRecord, error)
	GetRange(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.WeightRecord, error)
}

// NotificationRepository stores notification rows. Broadcast rows have
// no recipient and are visible to every reader.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error)
	// ListForReader returns rows where the recipient is readerID or
	// nil (broadcast), newest first.
	ListForReader(ctx context.Context, readerID primitive.ObjectID) ([]domain.Notification, error)
	CountUnreadForReader(ctx context.Context, readerID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, readAt time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteBatch removes every row of a multi-recipient send; used to
	// roll back a partially failed fan-out.
	DeleteBatch(ctx context.Context, batchID string) error
}
