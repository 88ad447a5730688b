package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message belongs to one conversation; the log is append-only and ordered
// by creation time.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation" json:"conversationId"`
	Sender         primitive.ObjectID `bson:"sender" json:"sender"`
	Content        string             `bson:"content" json:"content"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
