package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutSection is a user-defined (or admin-curated global) grouping label
// for workouts, e.g. "Push Day". Global sections have no owner.
type WorkoutSection struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Color     string              `bson:"color" json:"color"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	IsGlobal  bool                `bson:"isGlobal" json:"isGlobal"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DefaultSectionColor is applied when a section is created without one.
const DefaultSectionColor = "#3498db"
