package domain

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKeyForIsOrderIndependent(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	if PairKeyFor(a, b) != PairKeyFor(b, a) {
		t.Fatal("pair key must not depend on argument order")
	}
	if PairKeyFor(a, b) == PairKeyFor(a, primitive.NewObjectID()) {
		t.Fatal("distinct pairs must produce distinct keys")
	}
}

func TestMemberKeyForIsOrderIndependent(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	k1 := MemberKeyFor([]primitive.ObjectID{a, b, c})
	k2 := MemberKeyFor([]primitive.ObjectID{c, a, b})
	if k1 != k2 {
		t.Fatal("member key must not depend on member order")
	}
	if k1 == MemberKeyFor([]primitive.ObjectID{a, b}) {
		t.Fatal("different member sets must produce different keys")
	}
}
