package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Theme preference values accepted on profile updates.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// User represents an account. Aggregate workout stats (TotalWorkouts,
// AvgCalories, LastWorkoutDate) are maintained by the workout completion
// transition rather than recomputed on read.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // unique, stored lowercase
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Username     string             `bson:"username,omitempty" json:"username,omitempty"`
	// UsernameLower backs the sparse unique index; always the lowercase of Username.
	UsernameLower   string     `bson:"usernameLower,omitempty" json:"-"`
	Phone           string     `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfilePhoto    string     `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	Role            Role       `bson:"role" json:"role"`
	Height          *float64   `bson:"height,omitempty" json:"height,omitempty"`
	Weight          *float64   `bson:"weight,omitempty" json:"weight,omitempty"`
	Goals           string     `bson:"goals,omitempty" json:"goals,omitempty"`
	TotalWorkouts   int        `bson:"totalWorkouts" json:"totalWorkouts"`
	AvgCalories     int        `bson:"avgCalories" json:"avgCalories"`
	LastWorkoutDate *time.Time `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate,omitempty"`
	IsActive        bool       `bson:"isActive" json:"isActive"`
	ThemePreference string     `bson:"themePreference,omitempty" json:"themePreference,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetUsername keeps Username and its lowercase index field in sync.
func (u *User) SetUsername(username string) {
	u.Username = strings.TrimSpace(username)
	u.UsernameLower = strings.ToLower(u.Username)
}
