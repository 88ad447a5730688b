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
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoActiveSession  = errors.New("no active session")
	ErrSessionCompleted = errors.New("session is already completed")
)

// CompleteSetInput is one logged set; the completion timestamp is always
// assigned server-side.
type CompleteSetInput struct {
	ExerciseID primitive.ObjectID
	SetNumber  int
	Reps       int
	Weight     float64
	RPE        int
}

type SessionService interface {
	Start(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.WorkoutSession, error)
	Get(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	CompleteSet(ctx context.Context, userID, sessionID primitive.ObjectID, input CompleteSetInput) (*domain.WorkoutSession, error)
	UpdateProgress(ctx context.Context, userID, sessionID primitive.ObjectID, exerciseIndex, setIndex *int) (*domain.WorkoutSession, error)
	Complete(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
}

type sessionService struct {
	sessionRepo    repository.SessionRepository
	workoutRepo    repository.WorkoutRepository
	workoutService WorkoutService
}

func NewSessionService(sessionRepo repository.SessionRepository, workoutRepo repository.WorkoutRepository, workoutService WorkoutService) SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		workoutRepo:    workoutRepo,
		workoutService: workoutService,
	}
}

// Start opens a session for a workout the user owns. Starting twice returns
// the existing active session; the partial unique index on
// (workoutId, userId, in-progress) settles concurrent starts.
func (s *sessionService) Start(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.WorkoutSession, error) {
	workout, err := s.workoutRepo.GetByIDAndUser(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.Status == domain.WorkoutCompleted {
		return nil, ErrWorkoutAlreadyCompleted
	}

	existing, err := s.sessionRepo.GetActiveByWorkoutAndUser(ctx, workoutID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	session := &domain.WorkoutSession{
		WorkoutID:     workoutID,
		UserID:        userID,
		CompletedSets: []domain.CompletedSet{},
		StartTime:     time.Now(),
		Status:        domain.SessionInProgress,
	}
	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		// Lost the race; return whoever won.
		if errors.Is(err, repository.ErrConflict) {
			return s.sessionRepo.GetActiveByWorkoutAndUser(ctx, workoutID, userID)
		}
		return nil, err
	}
	session.ID = id

	if workout.Status == domain.WorkoutScheduled {
		if err := s.workoutRepo.SetStatus(ctx, workoutID, domain.WorkoutInProgress); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return session, nil
}

// CompleteSet appends one logged set. The set is taken as performed, even
// beyond the planned count or for an exercise outside the plan; it does not
// move the progress cursor, which the client advances separately through
// UpdateProgress.
func (s *sessionService) CompleteSet(ctx context.Context, userID, sessionID primitive.ObjectID, input CompleteSetInput) (*domain.WorkoutSession, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return nil, ErrSessionCompleted
	}

	set := domain.CompletedSet{
		ExerciseID:  input.ExerciseID,
		SetNumber:   input.SetNumber,
		Reps:        input.Reps,
		Weight:      input.Weight,
		RPE:         input.RPE,
		CompletedAt: time.Now(),
	}
	if err := s.sessionRepo.AppendCompletedSet(ctx, sessionID, userID, set); err != nil {
		return nil, err
	}
	session.CompletedSets = append(session.CompletedSets, set)
	return session, nil
}

// UpdateProgress moves the exercise/set cursor; nil indexes are left alone.
func (s *sessionService) UpdateProgress(ctx context.Context, userID, sessionID primitive.ObjectID, exerciseIndex, setIndex *int) (*domain.WorkoutSession, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return nil, ErrSessionCompleted
	}
	if exerciseIndex != nil && *exerciseIndex < 0 {
		return nil, errors.New("exercise index cannot be negative")
	}
	if setIndex != nil && *setIndex < 0 {
		return nil, errors.New("set index cannot be negative")
	}
	if err := s.sessionRepo.UpdateProgress(ctx, sessionID, userID, exerciseIndex, setIndex); err != nil {
		return nil, err
	}
	if exerciseIndex != nil {
		session.CurrentExerciseIndex = *exerciseIndex
	}
	if setIndex != nil {
		session.CurrentSetIndex = *setIndex
	}
	return session, nil
}

// Complete ends the session and cascades into the workout completion
// transition, which also bumps the user's aggregate stats.
func (s *sessionService) Complete(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return nil, ErrSessionCompleted
	}

	now := time.Now()
	if err := s.sessionRepo.Complete(ctx, sessionID, userID, now); err != nil {
		return nil, err
	}
	session.Status = domain.SessionCompleted
	session.EndTime = &now

	if _, err := s.workoutService.Complete(ctx, userID, session.WorkoutID); err != nil {
		// A workout completed through another path is fine; the session
		// itself finished cleanly.
		if !errors.Is(err, ErrWorkoutAlreadyCompleted) {
			return nil, err
		}
	}
	return session, nil
}
