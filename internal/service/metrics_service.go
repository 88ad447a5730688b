package service

import (
	"context"
	"errors"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMetricsNotFound = errors.New("metrics entry not found")
	ErrMetricsExists   = errors.New("a metrics entry already exists for this day")
)

// defaultMetricsWindow is the range used when the caller gives no bounds.
const defaultMetricsWindow = 30 * 24 * time.Hour

// MetricsInput carries the daily wellness fields.
type MetricsInput struct {
	Date        time.Time
	Calories    float64
	Steps       int
	WaterIntake float64
	SleepHours  float64
	Notes       string
}

type MetricsService interface {
	Create(ctx context.Context, userID primitive.ObjectID, input MetricsInput) (*domain.MetricsEntry, error)
	List(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MetricsEntry, error)
	Update(ctx context.Context, userID, entryID primitive.ObjectID, input MetricsInput) (*domain.MetricsEntry, error)
	Delete(ctx context.Context, userID, entryID primitive.ObjectID) error
}

type metricsService struct {
	metricsRepo repository.MetricsRepository
}

func NewMetricsService(metricsRepo repository.MetricsRepository) MetricsService {
	return &metricsService{metricsRepo: metricsRepo}
}

// startOfDay normalizes a timestamp to midnight so the unique
// (userId, date) index compares calendar days.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Create records one entry per user per day; a second entry for the same
// day is rejected by the unique index even under concurrent submission.
func (s *metricsService) Create(ctx context.Context, userID primitive.ObjectID, input MetricsInput) (*domain.MetricsEntry, error) {
	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	entry := &domain.MetricsEntry{
		UserID:      userID,
		Date:        startOfDay(input.Date),
		Calories:    input.Calories,
		Steps:       input.Steps,
		WaterIntake: input.WaterIntake,
		SleepHours:  input.SleepHours,
		Notes:       input.Notes,
	}
	id, err := s.metricsRepo.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrMetricsExists
		}
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

func (s *metricsService) List(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MetricsEntry, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.Add(-defaultMetricsWindow)
	}
	return s.metricsRepo.ListInRange(ctx, userID, startOfDay(from), to)
}

// Update edits the measured values; the entry's day never changes.
func (s *metricsService) Update(ctx context.Context, userID, entryID primitive.ObjectID, input MetricsInput) (*domain.MetricsEntry, error) {
	entry, err := s.metricsRepo.GetByIDAndUser(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMetricsNotFound
		}
		return nil, err
	}

	if input.Calories > 0 {
		entry.Calories = input.Calories
	}
	if input.Steps > 0 {
		entry.Steps = input.Steps
	}
	if input.WaterIntake > 0 {
		entry.WaterIntake = input.WaterIntake
	}
	if input.SleepHours > 0 {
		entry.SleepHours = input.SleepHours
	}
	if input.Notes != "" {
		entry.Notes = input.Notes
	}
	if err := s.metricsRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *metricsService) Delete(ctx context.Context, userID, entryID primitive.ObjectID) error {
	err := s.metricsRepo.Delete(ctx, entryID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMetricsNotFound
	}
	return err
}
