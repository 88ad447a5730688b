package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostVisibility type for social post audiences.
type PostVisibility string

const (
	VisibilityPublic  PostVisibility = "public"
	VisibilityFriends PostVisibility = "friends"
)

// Comment is embedded in a post, ordered by creation time.
type Comment struct {
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SocialPost is a user post. Likes have set semantics (toggle adds if
// absent, removes if present).
type SocialPost struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID   `bson:"user" json:"userId"`
	Content     string               `bson:"content,omitempty" json:"content,omitempty"`
	MediaURLs   []string             `bson:"mediaUrls,omitempty" json:"mediaUrls,omitempty"`
	ChallengeID *primitive.ObjectID  `bson:"challengeId,omitempty" json:"challengeId,omitempty"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	Visibility  PostVisibility       `bson:"visibility" json:"visibility"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// LikedBy reports whether userID is in the like set.
func (p *SocialPost) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
