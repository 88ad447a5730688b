package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeExpired  = errors.New("challenge deadline has passed")
)

const defaultChallengeLimit = 50

type ChallengeService interface {
	Create(ctx context.Context, adminID primitive.ObjectID, title, description, difficulty, reward string, deadline *time.Time) (*domain.Challenge, error)
	Get(ctx context.Context, challengeID primitive.ObjectID) (*domain.Challenge, error)
	List(ctx context.Context) ([]domain.Challenge, error)
	Participate(ctx context.Context, userID, challengeID primitive.ObjectID) (*domain.Challenge, error)
	Leaderboard(ctx context.Context, challengeID primitive.ObjectID) ([]domain.LeaderboardEntry, error)
}

type challengeService struct {
	challengeRepo repository.ChallengeRepository
	notifications NotificationService
}

func NewChallengeService(challengeRepo repository.ChallengeRepository, notifications NotificationService) ChallengeService {
	return &challengeService{challengeRepo: challengeRepo, notifications: notifications}
}

func (s *challengeService) Create(ctx context.Context, adminID primitive.ObjectID, title, description, difficulty, reward string, deadline *time.Time) (*domain.Challenge, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("challenge title cannot be empty")
	}
	if difficulty == "" {
		difficulty = domain.DifficultyBeginner
	}

	challenge := &domain.Challenge{
		Title:        title,
		Description:  description,
		CreatedBy:    adminID,
		Difficulty:   difficulty,
		Deadline:     deadline,
		Reward:       reward,
		Participants: []domain.ChallengeParticipant{},
	}
	id, err := s.challengeRepo.Create(ctx, challenge)
	if err != nil {
		return nil, err
	}
	challenge.ID = id
	return challenge, nil
}

func (s *challengeService) Get(ctx context.Context, challengeID primitive.ObjectID) (*domain.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return challenge, nil
}

func (s *challengeService) List(ctx context.Context) ([]domain.Challenge, error) {
	return s.challengeRepo.List(ctx, defaultChallengeLimit)
}

// Participate marks the user's participation completed at progress 100.
// Repeating the call is idempotent and never moves the first completion
// timestamp.
func (s *challengeService) Participate(ctx context.Context, userID, challengeID primitive.ObjectID) (*domain.Challenge, error) {
	challenge, err := s.Get(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Deadline != nil && time.Now().After(*challenge.Deadline) {
		return nil, ErrChallengeExpired
	}

	if err := s.challengeRepo.CompleteParticipant(ctx, challengeID, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	s.notifications.Notify(ctx, userID, domain.NotificationChallenge,
		"Challenge completed", "You completed the challenge "+challenge.Title,
		map[string]any{"challengeId": challengeID.Hex()})

	return s.Get(ctx, challengeID)
}

// Leaderboard ranks completed participants by their first completion time,
// earliest first, with dense 1-based ranks; equal timestamps share a rank.
func (s *challengeService) Leaderboard(ctx context.Context, challengeID primitive.ObjectID) ([]domain.LeaderboardEntry, error) {
	challenge, err := s.Get(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	completed := make([]domain.ChallengeParticipant, 0, len(challenge.Participants))
	for _, p := range challenge.Participants {
		if p.Completed && p.CompletedAt != nil {
			completed = append(completed, p)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].CompletedAt.Before(*completed[j].CompletedAt)
	})

	entries := make([]domain.LeaderboardEntry, len(completed))
	rank := 0
	for i, p := range completed {
		if i == 0 || p.CompletedAt.After(*completed[i-1].CompletedAt) {
			rank++
		}
		entries[i] = domain.LeaderboardEntry{
			Rank:        rank,
			UserID:      p.UserID,
			CompletedAt: *p.CompletedAt,
		}
	}
	return entries, nil
}
