package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels shared by exercises, workouts and challenges.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Workout / exercise categories.
const (
	CategoryStrength    = "Strength"
	CategoryCardio      = "Cardio"
	CategoryFlexibility = "Flexibility"
	CategoryMixed       = "Mixed"
)

// ExerciseVariation is an alternative way to perform an exercise.
type ExerciseVariation struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Exercise is a library entry. A non-global exercise is visible only to its
// creator; a global one is visible to everyone once approved by an admin.
type Exercise struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name"`
	Description      string              `bson:"description,omitempty" json:"description,omitempty"`
	SectionID        primitive.ObjectID  `bson:"section" json:"sectionId"`
	Category         string              `bson:"category" json:"category"`
	TargetMuscle     string              `bson:"targetMuscle,omitempty" json:"targetMuscle,omitempty"`
	SecondaryMuscles []string            `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	Equipment        string              `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Difficulty       string              `bson:"difficulty" json:"difficulty"`
	Instructions     []string            `bson:"instructions,omitempty" json:"instructions,omitempty"`
	ProTips          []string            `bson:"proTips,omitempty" json:"proTips,omitempty"`
	Variations       []ExerciseVariation `bson:"variations,omitempty" json:"variations,omitempty"`
	DefaultSets      int                 `bson:"defaultSets" json:"defaultSets"`
	DefaultReps      int                 `bson:"defaultReps" json:"defaultReps"`
	DefaultDuration  int                 `bson:"defaultDuration" json:"defaultDuration"`
	DemoVideo        string              `bson:"demoVideo,omitempty" json:"demoVideo,omitempty"`
	DemoImage        string              `bson:"demoImage,omitempty" json:"demoImage,omitempty"`
	CreatedBy        primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	IsGlobal         bool                `bson:"isGlobal" json:"isGlobal"`
	ApprovedByAdmin  bool                `bson:"approvedByAdmin" json:"approvedByAdmin"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
