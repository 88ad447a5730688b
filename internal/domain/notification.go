package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType type for notification categories.
type NotificationType string

const (
	NotificationFriend    NotificationType = "friend"
	NotificationChallenge NotificationType = "challenge"
	NotificationPost      NotificationType = "post"
	NotificationSystem    NotificationType = "system"
	NotificationMessage   NotificationType = "message"
)

// Notification is an append-only per-user record with a read flag.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Type      NotificationType   `bson:"type" json:"type"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Payload   map[string]any     `bson:"payload,omitempty" json:"payload,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
