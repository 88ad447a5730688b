package domain

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendRequestStatus type for the relationship lifecycle.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// FriendRequest is an ordered (requester, recipient) pair. PairKey is the
// direction-agnostic natural key backing a unique index, so the store
// rejects a duplicate request regardless of direction and regardless of
// request interleaving.
type FriendRequest struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Requester primitive.ObjectID  `bson:"requester" json:"requester"`
	Recipient primitive.ObjectID  `bson:"recipient" json:"recipient"`
	PairKey   string              `bson:"pairKey" json:"-"`
	Status    FriendRequestStatus `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Other resolves "the other party" of an accepted request relative to userID.
func (r *FriendRequest) Other(userID primitive.ObjectID) primitive.ObjectID {
	if r.Requester == userID {
		return r.Recipient
	}
	return r.Requester
}

// PairKeyFor builds the sorted natural key for a user pair.
func PairKeyFor(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// MemberKeyFor builds the sorted member-set key used to canonicalize direct
// conversations.
func MemberKeyFor(members []primitive.ObjectID) string {
	hexes := make([]string, len(members))
	for i, m := range members {
		hexes[i] = m.Hex()
	}
	sort.Strings(hexes)
	return strings.Join(hexes, ":")
}
