package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitorbit/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryChallengeStore mimics the atomic two-step participant upsert so the
// idempotence of Participate can be exercised end to end.
func memoryChallengeStore(challenge *domain.Challenge) *fakeChallengeRepo {
	return &fakeChallengeRepo{
		getByIDFn: func(context.Context, primitive.ObjectID) (*domain.Challenge, error) {
			snapshot := *challenge
			return &snapshot, nil
		},
		completeParticipantFn: func(_ context.Context, _, userID primitive.ObjectID, at time.Time) error {
			for i := range challenge.Participants {
				if challenge.Participants[i].UserID == userID {
					challenge.Participants[i].Progress = 100
					challenge.Participants[i].Completed = true
					if challenge.Participants[i].CompletedAt == nil {
						t := at
						challenge.Participants[i].CompletedAt = &t
					}
					return nil
				}
			}
			t := at
			challenge.Participants = append(challenge.Participants, domain.ChallengeParticipant{
				UserID: userID, Progress: 100, Completed: true, CompletedAt: &t,
			})
			return nil
		},
	}
}

func TestParticipateIsIdempotent(t *testing.T) {
	userID := primitive.NewObjectID()
	challenge := &domain.Challenge{ID: primitive.NewObjectID(), Title: "30 day plank"}
	svc := NewChallengeService(memoryChallengeStore(challenge), quietNotifications())

	first, err := svc.Participate(context.Background(), userID, challenge.ID)
	if err != nil {
		t.Fatalf("first participate failed: %v", err)
	}
	firstAt := *first.Participants[0].CompletedAt

	time.Sleep(2 * time.Millisecond)
	second, err := svc.Participate(context.Background(), userID, challenge.ID)
	if err != nil {
		t.Fatalf("second participate failed: %v", err)
	}
	if len(second.Participants) != 1 {
		t.Fatalf("expected one participant entry, got %d", len(second.Participants))
	}
	p := second.Participants[0]
	if p.Progress != 100 || !p.Completed {
		t.Fatalf("expected completed at progress 100, got %+v", p)
	}
	if !p.CompletedAt.Equal(firstAt) {
		t.Fatalf("first completion timestamp moved: %v -> %v", firstAt, *p.CompletedAt)
	}
}

func TestParticipateAfterDeadline(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	challenge := &domain.Challenge{ID: primitive.NewObjectID(), Title: "expired", Deadline: &past}
	svc := NewChallengeService(memoryChallengeStore(challenge), quietNotifications())

	_, err := svc.Participate(context.Background(), primitive.NewObjectID(), challenge.ID)
	if !errors.Is(err, ErrChallengeExpired) {
		t.Fatalf("expected ErrChallengeExpired, got %v", err)
	}
}

func TestLeaderboardOrderAndRanks(t *testing.T) {
	base := time.Now()
	mk := func(offset time.Duration) *time.Time {
		t := base.Add(offset)
		return &t
	}
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	tied := primitive.NewObjectID()
	unfinished := primitive.NewObjectID()

	challenge := &domain.Challenge{
		ID: primitive.NewObjectID(),
		Participants: []domain.ChallengeParticipant{
			{UserID: second, Progress: 100, Completed: true, CompletedAt: mk(time.Minute)},
			{UserID: unfinished, Progress: 0},
			{UserID: first, Progress: 100, Completed: true, CompletedAt: mk(0)},
			{UserID: tied, Progress: 100, Completed: true, CompletedAt: mk(time.Minute)},
		},
	}
	svc := NewChallengeService(memoryChallengeStore(challenge), quietNotifications())

	entries, err := svc.Leaderboard(context.Background(), challenge.ID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 completed entries, got %d", len(entries))
	}
	if entries[0].UserID != first || entries[0].Rank != 1 {
		t.Fatalf("expected earliest finisher ranked 1 first, got %+v", entries[0])
	}
	// The two finishers sharing a timestamp share the rank.
	if entries[1].Rank != 2 || entries[2].Rank != 2 {
		t.Fatalf("expected tied finishers at rank 2, got %d and %d", entries[1].Rank, entries[2].Rank)
	}
}
