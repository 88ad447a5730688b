package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricsEntry is a daily wellness record. Date is normalized to the start
// of the day; the (userId, date) pair is unique.
type MetricsEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Date        time.Time          `bson:"date" json:"date"`
	Calories    float64            `bson:"calories" json:"calories"`
	Steps       int                `bson:"steps" json:"steps"`
	WaterIntake float64            `bson:"waterIntake" json:"waterIntake"`
	SleepHours  float64            `bson:"sleepHours" json:"sleepHours"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
