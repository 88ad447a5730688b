package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateMetricsNormalizesDate(t *testing.T) {
	var stored *domain.MetricsEntry
	repo := &fakeMetricsRepo{
		createFn: func(_ context.Context, entry *domain.MetricsEntry) (primitive.ObjectID, error) {
			stored = entry
			return primitive.NewObjectID(), nil
		},
	}
	svc := NewMetricsService(repo)

	noon := time.Date(2025, 3, 14, 12, 37, 55, 0, time.UTC)
	entry, err := svc.Create(context.Background(), primitive.NewObjectID(), MetricsInput{Date: noon, Steps: 8000})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !stored.Date.Equal(want) || !entry.Date.Equal(want) {
		t.Fatalf("expected date normalized to %v, got %v", want, stored.Date)
	}
}

func TestCreateMetricsDuplicateDay(t *testing.T) {
	repo := &fakeMetricsRepo{
		createFn: func(context.Context, *domain.MetricsEntry) (primitive.ObjectID, error) {
			return primitive.NilObjectID, repository.ErrConflict
		},
	}
	svc := NewMetricsService(repo)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), MetricsInput{Steps: 100})
	if !errors.Is(err, ErrMetricsExists) {
		t.Fatalf("expected ErrMetricsExists, got %v", err)
	}
}

func TestUpdateMetricsKeepsDay(t *testing.T) {
	userID := primitive.NewObjectID()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	entry := &domain.MetricsEntry{ID: primitive.NewObjectID(), UserID: userID, Date: day, Steps: 5000}

	repo := &fakeMetricsRepo{
		getByIDAndUserFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.MetricsEntry, error) {
			snapshot := *entry
			return &snapshot, nil
		},
	}
	svc := NewMetricsService(repo)

	updated, err := svc.Update(context.Background(), userID, entry.ID, MetricsInput{
		Date:  time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC),
		Steps: 12000,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Steps != 12000 {
		t.Fatalf("expected steps updated, got %d", updated.Steps)
	}
	if !updated.Date.Equal(day) {
		t.Fatalf("update must not move the entry to another day, got %v", updated.Date)
	}
}

func TestUpdateMetricsNotFound(t *testing.T) {
	svc := NewMetricsService(&fakeMetricsRepo{})

	_, err := svc.Update(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), MetricsInput{Steps: 1})
	if !errors.Is(err, ErrMetricsNotFound) {
		t.Fatalf("expected ErrMetricsNotFound, got %v", err)
	}
}
