package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitorbit/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompleteWorkoutAppliesStats(t *testing.T) {
	userID := primitive.NewObjectID()
	workout := &domain.Workout{ID: primitive.NewObjectID(), UserID: userID, Status: domain.WorkoutInProgress, Calories: 450}

	var statusSet domain.WorkoutStatus
	averageCalls := 0
	workoutRepo := &fakeWorkoutRepo{
		getByIDAndUserFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Workout, error) {
			snapshot := *workout
			return &snapshot, nil
		},
		setStatusFn: func(_ context.Context, _ primitive.ObjectID, status domain.WorkoutStatus) error {
			statusSet = status
			return nil
		},
		averageCompletedCaloriesFn: func(context.Context, primitive.ObjectID) (int, error) {
			averageCalls++
			if statusSet != domain.WorkoutCompleted {
				t.Fatal("average recomputed before the workout was flipped to completed")
			}
			return 425, nil
		},
	}
	var appliedAvg int
	userRepo := &fakeUserRepo{
		applyWorkoutCompletionFn: func(_ context.Context, id primitive.ObjectID, avgCalories int, at time.Time) error {
			if id != userID {
				t.Fatalf("stats applied to wrong user %s", id.Hex())
			}
			if at.IsZero() {
				t.Fatal("missing completion timestamp")
			}
			appliedAvg = avgCalories
			return nil
		},
	}
	svc := NewWorkoutService(workoutRepo, userRepo)

	completed, err := svc.Complete(context.Background(), userID, workout.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Status != domain.WorkoutCompleted {
		t.Fatalf("expected completed status, got %s", completed.Status)
	}
	if averageCalls != 1 || appliedAvg != 425 {
		t.Fatalf("expected one average recompute applied as 425, got calls=%d avg=%d", averageCalls, appliedAvg)
	}
}

func TestCompleteWorkoutTwice(t *testing.T) {
	userID := primitive.NewObjectID()
	workout := &domain.Workout{ID: primitive.NewObjectID(), UserID: userID, Status: domain.WorkoutCompleted}

	statsApplied := false
	workoutRepo := &fakeWorkoutRepo{
		getByIDAndUserFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Workout, error) {
			return workout, nil
		},
	}
	userRepo := &fakeUserRepo{
		applyWorkoutCompletionFn: func(context.Context, primitive.ObjectID, int, time.Time) error {
			statsApplied = true
			return nil
		},
	}
	svc := NewWorkoutService(workoutRepo, userRepo)

	_, err := svc.Complete(context.Background(), userID, workout.ID)
	if !errors.Is(err, ErrWorkoutAlreadyCompleted) {
		t.Fatalf("expected ErrWorkoutAlreadyCompleted, got %v", err)
	}
	if statsApplied {
		t.Fatal("stats were double counted on repeated completion")
	}
}

func TestStartWorkoutIsIdempotent(t *testing.T) {
	userID := primitive.NewObjectID()
	workout := &domain.Workout{ID: primitive.NewObjectID(), UserID: userID, Status: domain.WorkoutInProgress}

	statusWrites := 0
	workoutRepo := &fakeWorkoutRepo{
		getByIDAndUserFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Workout, error) {
			return workout, nil
		},
		setStatusFn: func(context.Context, primitive.ObjectID, domain.WorkoutStatus) error {
			statusWrites++
			return nil
		},
	}
	svc := NewWorkoutService(workoutRepo, &fakeUserRepo{})

	result, err := svc.Start(context.Background(), userID, workout.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if result.Status != domain.WorkoutInProgress {
		t.Fatalf("expected in-progress, got %s", result.Status)
	}
	if statusWrites != 0 {
		t.Fatal("restarting an in-progress workout wrote a status change")
	}
}

func TestCreateWorkoutDefaults(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, &fakeUserRepo{})

	workout, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateWorkoutInput{Title: "  Leg Day  "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if workout.Title != "Leg Day" {
		t.Fatalf("expected trimmed title, got %q", workout.Title)
	}
	if workout.Status != domain.WorkoutScheduled {
		t.Fatalf("expected scheduled status, got %s", workout.Status)
	}
	if workout.Date.IsZero() {
		t.Fatal("expected date default")
	}

	if _, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateWorkoutInput{Title: "  "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}
