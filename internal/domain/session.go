package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the workout-session lifecycle.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
	// SessionPaused exists in the stored enum but no transition reaches it;
	// pause/resume was never implemented.
	SessionPaused SessionStatus = "paused"
)

// CompletedSet is one logged set inside a session. CompletedAt is always a
// server-side timestamp.
type CompletedSet struct {
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetNumber   int                `bson:"setNumber" json:"setNumber"`
	Reps        int                `bson:"reps" json:"reps"`
	Weight      float64            `bson:"weight" json:"weight"`
	RPE         int                `bson:"rpe" json:"rpe"`
	CompletedAt time.Time          `bson:"completedAt" json:"completedAt"`
}

// WorkoutSession is the in-progress state of a single workout attempt.
// CurrentExerciseIndex/CurrentSetIndex are advanced by the client through
// progress updates and are intentionally not coupled to set completion.
type WorkoutSession struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID            primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	UserID               primitive.ObjectID `bson:"userId" json:"userId"`
	CurrentExerciseIndex int                `bson:"currentExerciseIndex" json:"currentExerciseIndex"`
	CurrentSetIndex      int                `bson:"currentSetIndex" json:"currentSetIndex"`
	CompletedSets        []CompletedSet     `bson:"completedSets" json:"completedSets"`
	StartTime            time.Time          `bson:"startTime" json:"startTime"`
	EndTime              *time.Time         `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Status               SessionStatus      `bson:"status" json:"status"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
