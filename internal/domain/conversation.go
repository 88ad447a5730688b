package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversationType type for conversation flavors.
type ConversationType string

const (
	ConversationDirect    ConversationType = "direct"
	ConversationGroup     ConversationType = "group"
	ConversationCommunity ConversationType = "community"
)

// Conversation holds direct chats, groups and communities. Direct
// conversations are canonicalized to exactly two members; MemberKey is the
// sorted member-set key backing a sparse unique index that makes direct
// conversation creation idempotent at the storage layer. Group and community
// conversations carry a JoinCode for self-join.
type Conversation struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name,omitempty" json:"name,omitempty"`
	Type        ConversationType     `bson:"type" json:"type"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	MemberKey   string               `bson:"memberKey,omitempty" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	JoinCode    string               `bson:"joinCode,omitempty" json:"joinCode,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether userID is in the member list.
func (c *Conversation) HasMember(userID primitive.ObjectID) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}
