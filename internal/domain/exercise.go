package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"` // e.g., "chest", "legs", "back"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	DefaultSets int                `bson:"defaultSets,omitempty" json:"defaultSets,omitempty"`
	DefaultReps int                `bson:"defaultReps,omitempty" json:"defaultReps,omitempty"`
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
