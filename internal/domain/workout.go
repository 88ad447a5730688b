package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus type for the workout lifecycle.
type WorkoutStatus string

const (
	WorkoutScheduled  WorkoutStatus = "scheduled"
	WorkoutInProgress WorkoutStatus = "in-progress"
	WorkoutCompleted  WorkoutStatus = "completed"
)

// WorkoutExercise is an ordered exercise reference embedded in a workout.
type WorkoutExercise struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       int                `bson:"sets" json:"sets"`
	Reps       int                `bson:"reps" json:"reps"`
	Weight     float64            `bson:"weight" json:"weight"`
	RPE        int                `bson:"rpe" json:"rpe"` // rate of perceived exertion, 1-10
	RestTime   int                `bson:"restTime" json:"restTime"`
	Order      int                `bson:"order" json:"order"`
}

// Workout is a plan or log entry owned by exactly one user. Admin-curated
// templates carry IsGlobal and become visible once ApprovedByAdmin.
type Workout struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title             string               `bson:"title" json:"title"`
	Description       string               `bson:"description,omitempty" json:"description,omitempty"`
	UserID            primitive.ObjectID   `bson:"userId" json:"userId"`
	Category          string               `bson:"category" json:"category"`
	SectionIDs        []primitive.ObjectID `bson:"sections,omitempty" json:"sectionIds,omitempty"`
	Exercises         []WorkoutExercise    `bson:"exercises" json:"exercises"`
	EstimatedDuration int                  `bson:"estimatedDuration" json:"estimatedDuration"`
	Difficulty        string               `bson:"difficulty" json:"difficulty"`
	Notes             string               `bson:"notes,omitempty" json:"notes,omitempty"`
	Calories          int                  `bson:"calories" json:"calories"`
	Date              time.Time            `bson:"date" json:"date"`
	Status            WorkoutStatus        `bson:"status" json:"status"`
	IsTemplate        bool                 `bson:"isTemplate" json:"isTemplate"`
	IsGlobal          bool                 `bson:"isGlobal" json:"isGlobal"`
	ApprovedByAdmin   bool                 `bson:"approvedByAdmin" json:"approvedByAdmin"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}
