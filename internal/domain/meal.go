package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meal represents a single meal definition in the catalog.
// Nutrition facts live here and are resolved at read time wherever
// a schedule references the meal; they are never copied into
// assignment rows as a source of truth.
type Meal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"` // e.g., "chicken", "dairy", "carbs"
	Calories    int                `bson:"calories" json:"calories"`
	Protein     float64            `bson:"protein" json:"protein"`
	Carbs       float64            `bson:"carbs" json:"carbs"`
	Fat         float64            `bson:"fat" json:"fat"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageKey    string             `bson:"imageKey,omitempty" json:"-"` // S3 object key for the meal photo
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MealTiming is the slot within a day a meal is scheduled for.
type MealTiming string

const (
	TimingBreakfast MealTiming = "breakfast"
	TimingLunch     MealTiming = "lunch"
	TimingDinner    MealTiming = "dinner"
	TimingSnack     MealTiming = "snack"
)

// MealTimings lists every timing bucket in display order.
var MealTimings = []MealTiming{TimingBreakfast, TimingLunch, TimingDinner, TimingSnack}

func (t MealTiming) Valid() bool {
	switch t {
	case TimingBreakfast, TimingLunch, TimingDinner, TimingSnack:
		return true
	}
	return false
}
