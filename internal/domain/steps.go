package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Step target bounds. Targets below 1000 are not meaningful goals and
// 20000 is the practical ceiling the trainer UI offers.
const (
	MinStepTarget     = 1000
	MaxStepTarget     = 20000
	DefaultStepTarget = 3000
)

// StepRecord holds one day of step tracking for a trainee. At most one
// record exists per (traineeId, date), enforced by a unique index.
// Steps mutate freely; TargetSteps only changes through target
// propagation, which touches today and future dates but never the past.
type StepRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID   primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	Date        time.Time          `bson:"date" json:"date"` // UTC midnight
	Steps       int                `bson:"steps" json:"steps"`
	TargetSteps int                `bson:"targetSteps" json:"targetSteps"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
