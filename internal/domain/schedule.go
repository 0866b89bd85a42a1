package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklySchedule is the container for everything assigned to a trainee
// during one calendar week. WeekStartDate is always the Sunday (UTC
// midnight) that begins the week; any date a caller passes in is
// normalized to it. At most one schedule exists per
// (traineeId, weekStartDate) pair, enforced by a unique index.
//
// Schedules are created lazily on first access and never deleted by
// the engine; past weeks are retained as history.
type WeeklySchedule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID     primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	WeekStartDate time.Time          `bson:"weekStartDate" json:"weekStartDate"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
