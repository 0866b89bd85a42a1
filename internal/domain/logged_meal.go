package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoggedMeal is an ad-hoc meal a trainee records outside the weekly
// schedule (restaurant food, a snack not in the catalog). It carries
// its own nutrition facts since there is no catalog row to resolve
// them from, and the same reversible status as a scheduled meal so it
// participates in the daily totals.
type LoggedMeal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	Date      time.Time          `bson:"date" json:"date"` // UTC midnight of the day it was eaten
	Name      string             `bson:"name" json:"name"`
	Calories  int                `bson:"calories" json:"calories"`
	Protein   float64            `bson:"protein" json:"protein"`
	Carbs     float64            `bson:"carbs" json:"carbs"`
	Fat       float64            `bson:"fat" json:"fat"`
	Status    MealStatus         `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
