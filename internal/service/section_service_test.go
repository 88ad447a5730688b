package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitorbit/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSectionListCarriesCompletedCounts(t *testing.T) {
	userID := primitive.NewObjectID()
	strengthID := primitive.NewObjectID()
	cardioID := primitive.NewObjectID()

	sectionRepo := &fakeSectionRepo{
		listForUserFn: func(context.Context, primitive.ObjectID) ([]domain.WorkoutSection, error) {
			return []domain.WorkoutSection{
				{ID: strengthID, Name: "Strength"},
				{ID: cardioID, Name: "Cardio"},
			}, nil
		},
	}
	workoutRepo := &fakeWorkoutRepo{
		countCompletedWithSectionFn: func(_ context.Context, uid, sectionID primitive.ObjectID, since time.Time) (int64, error) {
			if uid != userID {
				t.Fatalf("counted for the wrong user: %s", uid.Hex())
			}
			if !since.IsZero() {
				t.Fatalf("expected an all-time count, got since=%v", since)
			}
			if sectionID == strengthID {
				return 7, nil
			}
			return 0, nil
		},
	}
	svc := NewSectionService(sectionRepo, workoutRepo)

	stats, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(stats))
	}
	if stats[0].Name != "Strength" || stats[0].CompletedCount != 7 {
		t.Fatalf("unexpected stats for %s: %d", stats[0].Name, stats[0].CompletedCount)
	}
	if stats[1].Name != "Cardio" || stats[1].CompletedCount != 0 {
		t.Fatalf("unexpected stats for %s: %d", stats[1].Name, stats[1].CompletedCount)
	}
}

func TestSectionDeleteRefusedWhileInUse(t *testing.T) {
	userID := primitive.NewObjectID()
	sectionID := primitive.NewObjectID()

	sectionRepo := &fakeSectionRepo{
		getByIDFn: func(context.Context, primitive.ObjectID) (*domain.WorkoutSection, error) {
			return &domain.WorkoutSection{ID: sectionID, Name: "Strength", UserID: &userID}, nil
		},
		deleteFn: func(context.Context, primitive.ObjectID) error {
			t.Fatal("a referenced section must not be deleted")
			return nil
		},
	}
	workoutRepo := &fakeWorkoutRepo{
		existsWithSectionFn: func(context.Context, primitive.ObjectID) (bool, error) {
			return true, nil
		},
	}
	svc := NewSectionService(sectionRepo, workoutRepo)

	if err := svc.Delete(context.Background(), userID, sectionID); !errors.Is(err, ErrSectionInUse) {
		t.Fatalf("expected ErrSectionInUse, got %v", err)
	}
}
