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

var ErrInvalidRole = errors.New("role must be 'user' or 'admin'")

const popularWorkoutsLimit = 10

// PlatformStats is the admin analytics snapshot.
type PlatformStats struct {
	TotalUsers          int64                       `json:"totalUsers"`
	NewUsersThisWeek    int64                       `json:"newUsersThisWeek"`
	ActiveUsersThisWeek int64                       `json:"activeUsersThisWeek"`
	CompletedWorkouts   int64                       `json:"completedWorkouts"`
	GlobalExercises     int64                       `json:"globalExercises"`
	PlatformAvgCalories int                         `json:"platformAvgCalories"`
	PopularWorkouts     []repository.PopularWorkout `json:"popularWorkouts"`
}

type AdminService interface {
	Stats(ctx context.Context) (*PlatformStats, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
	SetUserRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) error
	SetUserActive(ctx context.Context, userID primitive.ObjectID, active bool) error
	ListPendingExercises(ctx context.Context) ([]domain.Exercise, error)
	ReviewExercise(ctx context.Context, exerciseID primitive.ObjectID, approve bool) error
	ListPendingWorkouts(ctx context.Context) ([]domain.Workout, error)
	ReviewWorkout(ctx context.Context, workoutID primitive.ObjectID, approve bool) error
}

type adminService struct {
	userRepo     repository.UserRepository
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
}

func NewAdminService(userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) AdminService {
	return &adminService{
		userRepo:     userRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
	}
}

// Stats runs the independent counts concurrently.
func (s *adminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	weekAgo := time.Now().AddDate(0, 0, -7)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.userRepo.CountTotal(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.NewUsersThisWeek, err = s.userRepo.CountCreatedSince(ctx, weekAgo)
		return
	})
	g.Go(func() (err error) {
		stats.ActiveUsersThisWeek, err = s.userRepo.CountActiveSince(ctx, weekAgo)
		return
	})
	g.Go(func() (err error) {
		stats.CompletedWorkouts, err = s.workoutRepo.CountCompletedTotal(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.GlobalExercises, err = s.exerciseRepo.CountApprovedGlobal(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.PlatformAvgCalories, err = s.userRepo.PlatformAvgCalories(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.PopularWorkouts, err = s.workoutRepo.PopularGlobal(ctx, popularWorkoutsLimit)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *adminService) SetUserRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return ErrInvalidRole
	}
	err := s.userRepo.SetRole(ctx, userID, role)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *adminService) SetUserActive(ctx context.Context, userID primitive.ObjectID, active bool) error {
	err := s.userRepo.SetActive(ctx, userID, active)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *adminService) ListPendingExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.ListPendingGlobal(ctx)
}

// ReviewExercise approves or rejects a pending global submission. A
// rejection returns the exercise to the submitter's private library.
func (s *adminService) ReviewExercise(ctx context.Context, exerciseID primitive.ObjectID, approve bool) error {
	err := s.exerciseRepo.SetApproval(ctx, exerciseID, approve, approve)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

func (s *adminService) ListPendingWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return s.workoutRepo.ListPendingGlobal(ctx)
}

func (s *adminService) ReviewWorkout(ctx context.Context, workoutID primitive.ObjectID, approve bool) error {
	err := s.workoutRepo.SetApproval(ctx, workoutID, approve, approve)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}
