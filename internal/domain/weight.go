package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightRecord holds a trainee's morning weigh-in for one day.
// One record per (traineeId, date); re-recording overwrites.
type WeightRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	Date      time.Time          `bson:"date" json:"date"` // UTC midnight
	WeightKg  float64            `bson:"weightKg" json:"weightKg"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
