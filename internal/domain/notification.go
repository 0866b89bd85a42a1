package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the display category of a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}

// Notification is a message from one user to one or all trainees.
//
// A broadcast is a single row with RecipientID nil, visible to every
// trainee; its ReadAt field is shared by all readers (see the service
// layer notes on this). A targeted notification has RecipientID set
// and its ReadAt belongs to that recipient alone. Targeted sends to
// several recipients insert one row per recipient, tied together by
// BatchID so a partially failed send can be rolled back.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Message     string              `bson:"message" json:"message"`
	Type        NotificationType    `bson:"type" json:"type"`
	SenderID    primitive.ObjectID  `bson:"senderId" json:"senderId"`
	RecipientID *primitive.ObjectID `bson:"recipientId,omitempty" json:"recipientId,omitempty"`
	BatchID     string              `bson:"batchId,omitempty" json:"-"`
	ReadAt      *time.Time          `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// IsBroadcast reports whether the notification is addressed to everyone.
func (n *Notification) IsBroadcast() bool {
	return n.RecipientID == nil
}
