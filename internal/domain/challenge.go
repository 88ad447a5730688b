package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChallengeParticipant is embedded in a challenge. Completion is binary:
// participation always completes at progress 100, and the first recorded
// CompletedAt is authoritative.
type ChallengeParticipant struct {
	UserID      primitive.ObjectID `bson:"user" json:"userId"`
	Progress    int                `bson:"progress" json:"progress"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// Challenge is an admin-created community challenge.
type Challenge struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title        string                 `bson:"title" json:"title"`
	Description  string                 `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy    primitive.ObjectID     `bson:"createdBy" json:"createdBy"`
	Difficulty   string                 `bson:"difficulty" json:"difficulty"`
	Deadline     *time.Time             `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Reward       string                 `bson:"reward,omitempty" json:"reward,omitempty"`
	Participants []ChallengeParticipant `bson:"participants" json:"participants"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// LeaderboardEntry is a dense 1-based rank over completed participants,
// earliest finisher first.
type LeaderboardEntry struct {
	Rank        int                `json:"rank"`
	UserID      primitive.ObjectID `json:"userId"`
	CompletedAt time.Time          `json:"completedAt"`
}
