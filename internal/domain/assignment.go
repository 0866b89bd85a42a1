package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealStatus tracks whether the trainee acted on a scheduled meal.
// Every transition between the three values is legal and reversible;
// there is no terminal state.
type MealStatus string

const (
	MealPending  MealStatus = "pending"
	MealConsumed MealStatus = "consumed"
	MealSkipped  MealStatus = "skipped"
)

func (s MealStatus) Valid() bool {
	switch s {
	case MealPending, MealConsumed, MealSkipped:
		return true
	}
	return false
}

// MealAssignment binds a catalog meal to a (dayOfWeek, timing) slot of
// a weekly schedule. Duplicates within a slot are allowed: a trainee
// may eat the same meal twice. StatusChangedAt is set whenever the
// status leaves pending and cleared when it returns to pending.
type MealAssignment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScheduleID      primitive.ObjectID `bson:"scheduleId" json:"scheduleId"`
	MealID          primitive.ObjectID `bson:"mealId" json:"mealId"`
	DayOfWeek       int                `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	Timing          MealTiming         `bson:"timing" json:"timing"`
	Status          MealStatus         `bson:"status" json:"status"`
	StatusChangedAt *time.Time         `bson:"statusChangedAt,omitempty" json:"statusChangedAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseStatus mirrors MealStatus for scheduled exercises.
type ExerciseStatus string

const (
	ExercisePending   ExerciseStatus = "pending"
	ExerciseCompleted ExerciseStatus = "completed"
	ExerciseSkipped   ExerciseStatus = "skipped"
)

func (s ExerciseStatus) Valid() bool {
	switch s {
	case ExercisePending, ExerciseCompleted, ExerciseSkipped:
		return true
	}
	return false
}

// ExerciseAssignment binds a catalog exercise to a day of a weekly
// schedule, with the sets/reps prescribed for that occurrence.
type ExerciseAssignment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScheduleID      primitive.ObjectID `bson:"scheduleId" json:"scheduleId"`
	ExerciseID      primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	DayOfWeek       int                `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	Sets            int                `bson:"sets" json:"sets"`
	Reps            int                `bson:"reps" json:"reps"`
	Status          ExerciseStatus     `bson:"status" json:"status"`
	StatusChangedAt *time.Time         `bson:"statusChangedAt,omitempty" json:"statusChangedAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
