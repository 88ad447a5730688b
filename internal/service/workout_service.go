package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutAlreadyCompleted = errors.New("workout is already completed")
	ErrWorkoutNotInProgress    = errors.New("workout is not in progress")
)

// CreateWorkoutInput carries the fields accepted on workout creation.
type CreateWorkoutInput struct {
	Title             string
	Description       string
	Category          string
	SectionIDs        []primitive.ObjectID
	Exercises         []domain.WorkoutExercise
	EstimatedDuration int
	Difficulty        string
	Notes             string
	Calories          int
	Date              time.Time
	IsTemplate        bool
}

type WorkoutService interface {
	Create(ctx context.Context, userID primitive.ObjectID, input CreateWorkoutInput) (*domain.Workout, error)
	Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, userID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, error)
	Update(ctx context.Context, userID, workoutID primitive.ObjectID, input CreateWorkoutInput) (*domain.Workout, error)
	Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error
	Start(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
	Complete(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, userRepo repository.UserRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo, userRepo: userRepo}
}

func (s *workoutService) Create(ctx context.Context, userID primitive.ObjectID, input CreateWorkoutInput) (*domain.Workout, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, errors.New("workout title cannot be empty")
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	if input.Category == "" {
		input.Category = domain.CategoryMixed
	}
	if input.Difficulty == "" {
		input.Difficulty = domain.DifficultyBeginner
	}

	workout := &domain.Workout{
		Title:             input.Title,
		Description:       input.Description,
		UserID:            userID,
		Category:          input.Category,
		SectionIDs:        input.SectionIDs,
		Exercises:         input.Exercises,
		EstimatedDuration: input.EstimatedDuration,
		Difficulty:        input.Difficulty,
		Notes:             input.Notes,
		Calories:          input.Calories,
		Date:              input.Date,
		Status:            domain.WorkoutScheduled,
		IsTemplate:        input.IsTemplate,
	}
	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id
	return workout, nil
}

func (s *workoutService) Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByIDAndUser(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) List(ctx context.Context, userID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	return s.workoutRepo.List(ctx, userID, filter)
}

func (s *workoutService) Update(ctx context.Context, userID, workoutID primitive.ObjectID, input CreateWorkoutInput) (*domain.Workout, error) {
	workout, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.Status == domain.WorkoutCompleted {
		return nil, ErrWorkoutAlreadyCompleted
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		workout.Title = title
	}
	if input.Description != "" {
		workout.Description = input.Description
	}
	if input.Category != "" {
		workout.Category = input.Category
	}
	if input.SectionIDs != nil {
		workout.SectionIDs = input.SectionIDs
	}
	if input.Exercises != nil {
		workout.Exercises = input.Exercises
	}
	if input.EstimatedDuration > 0 {
		workout.EstimatedDuration = input.EstimatedDuration
	}
	if input.Difficulty != "" {
		workout.Difficulty = input.Difficulty
	}
	if input.Notes != "" {
		workout.Notes = input.Notes
	}
	if input.Calories > 0 {
		workout.Calories = input.Calories
	}
	if !input.Date.IsZero() {
		workout.Date = input.Date
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	err := s.workoutRepo.Delete(ctx, workoutID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

// Start moves a scheduled workout to in-progress. Starting an in-progress
// workout is a no-op so retries stay safe.
func (s *workoutService) Start(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	switch workout.Status {
	case domain.WorkoutCompleted:
		return nil, ErrWorkoutAlreadyCompleted
	case domain.WorkoutInProgress:
		return workout, nil
	}
	if err := s.workoutRepo.SetStatus(ctx, workoutID, domain.WorkoutInProgress); err != nil {
		return nil, err
	}
	workout.Status = domain.WorkoutInProgress
	return workout, nil
}

// Complete is the single completion transition. It flips the workout to
// completed, then recomputes the user's average calories over completed
// workouts (so the one just finished counts) and applies the stat bump as
// one atomic user update. Direct completion and session completion both
// land here.
func (s *workoutService) Complete(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.Status == domain.WorkoutCompleted {
		return nil, ErrWorkoutAlreadyCompleted
	}

	now := time.Now()
	if err := s.workoutRepo.SetStatus(ctx, workoutID, domain.WorkoutCompleted); err != nil {
		return nil, err
	}
	workout.Status = domain.WorkoutCompleted

	avgCalories, err := s.workoutRepo.AverageCompletedCalories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.ApplyWorkoutCompletion(ctx, userID, avgCalories, now); err != nil {
		return nil, err
	}
	return workout, nil
}
