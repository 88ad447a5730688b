package service

import (
	"context"
	"errors"
	"strings"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrExerciseNotVisible = errors.New("exercise is not visible to this user")
	ErrExerciseNotOwned   = errors.New("exercise does not belong to this user")
)

// CreateExerciseInput carries the fields accepted on exercise creation.
type CreateExerciseInput struct {
	Name             string
	Description      string
	SectionID        primitive.ObjectID
	Category         string
	TargetMuscle     string
	SecondaryMuscles []string
	Equipment        string
	Difficulty       string
	Instructions     []string
	ProTips          []string
	Variations       []domain.ExerciseVariation
	DefaultSets      int
	DefaultReps      int
	DefaultDuration  int
	DemoVideo        string
	DemoImage        string
}

type ExerciseService interface {
	Create(ctx context.Context, userID primitive.ObjectID, input CreateExerciseInput) (*domain.Exercise, error)
	Get(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, userID, exerciseID primitive.ObjectID, input CreateExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, userID, exerciseID primitive.ObjectID) error
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	sectionRepo  repository.SectionRepository
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, sectionRepo repository.SectionRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo, sectionRepo: sectionRepo}
}

func (s *exerciseService) Create(ctx context.Context, userID primitive.ObjectID, input CreateExerciseInput) (*domain.Exercise, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("exercise name cannot be empty")
	}
	if _, err := s.sectionRepo.GetByID(ctx, input.SectionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	if input.Difficulty == "" {
		input.Difficulty = domain.DifficultyBeginner
	}
	if input.DefaultSets <= 0 {
		input.DefaultSets = 3
	}
	if input.DefaultReps <= 0 {
		input.DefaultReps = 10
	}

	exercise := &domain.Exercise{
		Name:             input.Name,
		Description:      input.Description,
		SectionID:        input.SectionID,
		Category:         input.Category,
		TargetMuscle:     input.TargetMuscle,
		SecondaryMuscles: input.SecondaryMuscles,
		Equipment:        input.Equipment,
		Difficulty:       input.Difficulty,
		Instructions:     input.Instructions,
		ProTips:          input.ProTips,
		Variations:       input.Variations,
		DefaultSets:      input.DefaultSets,
		DefaultReps:      input.DefaultReps,
		DefaultDuration:  input.DefaultDuration,
		DemoVideo:        input.DemoVideo,
		DemoImage:        input.DemoImage,
		CreatedBy:        userID,
	}
	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

func (s *exerciseService) Get(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.CreatedBy != userID && !(exercise.IsGlobal && exercise.ApprovedByAdmin) {
		return nil, ErrExerciseNotVisible
	}
	return exercise, nil
}

func (s *exerciseService) List(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.exerciseRepo.ListVisible(ctx, userID, filter)
}

func (s *exerciseService) Update(ctx context.Context, userID, exerciseID primitive.ObjectID, input CreateExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.ownedExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		exercise.Name = name
	}
	if input.Description != "" {
		exercise.Description = input.Description
	}
	if !input.SectionID.IsZero() {
		if _, err := s.sectionRepo.GetByID(ctx, input.SectionID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSectionNotFound
			}
			return nil, err
		}
		exercise.SectionID = input.SectionID
	}
	if input.Category != "" {
		exercise.Category = input.Category
	}
	if input.TargetMuscle != "" {
		exercise.TargetMuscle = input.TargetMuscle
	}
	if input.SecondaryMuscles != nil {
		exercise.SecondaryMuscles = input.SecondaryMuscles
	}
	if input.Equipment != "" {
		exercise.Equipment = input.Equipment
	}
	if input.Difficulty != "" {
		exercise.Difficulty = input.Difficulty
	}
	if input.Instructions != nil {
		exercise.Instructions = input.Instructions
	}
	if input.ProTips != nil {
		exercise.ProTips = input.ProTips
	}
	if input.Variations != nil {
		exercise.Variations = input.Variations
	}
	if input.DefaultSets > 0 {
		exercise.DefaultSets = input.DefaultSets
	}
	if input.DefaultReps > 0 {
		exercise.DefaultReps = input.DefaultReps
	}
	if input.DefaultDuration > 0 {
		exercise.DefaultDuration = input.DefaultDuration
	}
	if input.DemoVideo != "" {
		exercise.DemoVideo = input.DemoVideo
	}
	if input.DemoImage != "" {
		exercise.DemoImage = input.DemoImage
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	if _, err := s.ownedExercise(ctx, userID, exerciseID); err != nil {
		return err
	}
	return s.exerciseRepo.Delete(ctx, exerciseID)
}

func (s *exerciseService) ownedExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.CreatedBy != userID {
		return nil, ErrExerciseNotOwned
	}
	return exercise, nil
}
