package service

import (
	"context"
	"errors"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// DashboardData is the home-screen snapshot.
type DashboardData struct {
	User                *domain.User           `json:"user"`
	ActiveSession       *domain.WorkoutSession `json:"activeSession,omitempty"`
	TodayMetrics        *domain.MetricsEntry   `json:"todayMetrics,omitempty"`
	WeekCompleted       int                    `json:"weekCompleted"`
	UpcomingWorkouts    []domain.Workout       `json:"upcomingWorkouts"`
	UnreadNotifications int                    `json:"unreadNotifications"`
}

type DashboardService interface {
	Load(ctx context.Context, userID primitive.ObjectID) (*DashboardData, error)
}

type dashboardService struct {
	userRepo         repository.UserRepository
	workoutRepo      repository.WorkoutRepository
	sessionRepo      repository.SessionRepository
	metricsRepo      repository.MetricsRepository
	notificationRepo repository.NotificationRepository
}

func NewDashboardService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	sessionRepo repository.SessionRepository,
	metricsRepo repository.MetricsRepository,
	notificationRepo repository.NotificationRepository,
) DashboardService {
	return &dashboardService{
		userRepo:         userRepo,
		workoutRepo:      workoutRepo,
		sessionRepo:      sessionRepo,
		metricsRepo:      metricsRepo,
		notificationRepo: notificationRepo,
	}
}

// Load gathers the dashboard pieces concurrently; they are independent
// reads, so one slow query does not serialize the rest.
func (s *dashboardService) Load(ctx context.Context, userID primitive.ObjectID) (*DashboardData, error) {
	data := &DashboardData{}
	now := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		user.PasswordHash = ""
		data.User = user
		return nil
	})
	g.Go(func() error {
		session, err := s.sessionRepo.GetActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil // no active session is the common case
			}
			return err
		}
		data.ActiveSession = session
		return nil
	})
	g.Go(func() error {
		today := startOfDay(now)
		entries, err := s.metricsRepo.ListInRange(ctx, userID, today, today.Add(24*time.Hour))
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			data.TodayMetrics = &entries[0]
		}
		return nil
	})
	g.Go(func() error {
		weekStart := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
		workouts, err := s.workoutRepo.ListCompletedBetween(ctx, userID, weekStart, now)
		if err != nil {
			return err
		}
		data.WeekCompleted = len(workouts)
		return nil
	})
	g.Go(func() error {
		workouts, err := s.workoutRepo.List(ctx, userID, repository.WorkoutFilter{
			Status: domain.WorkoutScheduled,
		})
		if err != nil {
			return err
		}
		if len(workouts) > 5 {
			workouts = workouts[:5]
		}
		data.UpcomingWorkouts = workouts
		return nil
	})
	g.Go(func() error {
		unread, err := s.notificationRepo.List(ctx, userID, true, defaultNotificationLimit)
		if err != nil {
			return err
		}
		data.UnreadNotifications = len(unread)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
