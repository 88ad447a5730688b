package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrSectionExists   = errors.New("a section with this name already exists")
	ErrSectionInUse    = errors.New("section is referenced by existing workouts")
	ErrSectionNotOwned = errors.New("section does not belong to this user")
)

// SectionStats is a section together with how many of the user's completed
// workouts reference it.
type SectionStats struct {
	domain.WorkoutSection
	CompletedCount int64 `json:"completedCount"`
}

type SectionService interface {
	Create(ctx context.Context, userID primitive.ObjectID, name, color string) (*domain.WorkoutSection, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]SectionStats, error)
	Update(ctx context.Context, userID, sectionID primitive.ObjectID, name, color string) (*domain.WorkoutSection, error)
	Delete(ctx context.Context, userID, sectionID primitive.ObjectID) error
}

type sectionService struct {
	sectionRepo repository.SectionRepository
	workoutRepo repository.WorkoutRepository
}

func NewSectionService(sectionRepo repository.SectionRepository, workoutRepo repository.WorkoutRepository) SectionService {
	return &sectionService{sectionRepo: sectionRepo, workoutRepo: workoutRepo}
}

// Create adds a personal section. Name uniqueness is case-insensitive
// across the user's own sections and the global ones.
func (s *sectionService) Create(ctx context.Context, userID primitive.ObjectID, name, color string) (*domain.WorkoutSection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("section name cannot be empty")
	}
	_, err := s.sectionRepo.FindByNameForUser(ctx, name, userID)
	if err == nil {
		return nil, ErrSectionExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if color == "" {
		color = domain.DefaultSectionColor
	}
	section := &domain.WorkoutSection{
		Name:   name,
		Color:  color,
		UserID: &userID,
	}
	id, err := s.sectionRepo.Create(ctx, section)
	if err != nil {
		return nil, err
	}
	section.ID = id
	return section, nil
}

// List returns the user's visible sections, each annotated with the user's
// all-time completed-workout count for that section.
func (s *sectionService) List(ctx context.Context, userID primitive.ObjectID) ([]SectionStats, error) {
	sections, err := s.sectionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := make([]SectionStats, len(sections))
	g, ctx := errgroup.WithContext(ctx)
	for i, section := range sections {
		stats[i].WorkoutSection = section
		g.Go(func() (err error) {
			stats[i].CompletedCount, err = s.workoutRepo.CountCompletedWithSection(ctx, userID, section.ID, time.Time{})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *sectionService) Update(ctx context.Context, userID, sectionID primitive.ObjectID, name, color string) (*domain.WorkoutSection, error) {
	section, err := s.ownedSection(ctx, userID, sectionID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" && !strings.EqualFold(name, section.Name) {
		existing, err := s.sectionRepo.FindByNameForUser(ctx, name, userID)
		if err == nil && existing.ID != sectionID {
			return nil, ErrSectionExists
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		section.Name = name
	}
	if color != "" {
		section.Color = color
	}
	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// Delete refuses to remove a section any workout still references.
func (s *sectionService) Delete(ctx context.Context, userID, sectionID primitive.ObjectID) error {
	if _, err := s.ownedSection(ctx, userID, sectionID); err != nil {
		return err
	}
	inUse, err := s.workoutRepo.ExistsWithSection(ctx, sectionID)
	if err != nil {
		return err
	}
	if inUse {
		return ErrSectionInUse
	}
	return s.sectionRepo.Delete(ctx, sectionID)
}

func (s *sectionService) ownedSection(ctx context.Context, userID, sectionID primitive.ObjectID) (*domain.WorkoutSection, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	if section.IsGlobal || section.UserID == nil || *section.UserID != userID {
		return nil, ErrSectionNotOwned
	}
	return section, nil
}
