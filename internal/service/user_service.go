package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrInvalidTheme    = errors.New("theme must be 'light' or 'dark'")
	ErrWrongPassword   = errors.New("current password is incorrect")
	ErrNothingToExport = errors.New("nothing to export in the requested range")
)

// minSearchQueryLen is the threshold below which user search returns an
// empty result without touching the store.
const minSearchQueryLen = 2

// UpdateProfileInput carries the optional profile fields; nil means
// "leave unchanged".
type UpdateProfileInput struct {
	Name            *string
	Username        *string
	Phone           *string
	Height          *float64
	Weight          *float64
	Goals           *string
	ProfilePhoto    *string
	ThemePreference *string
}

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
	Search(ctx context.Context, userID primitive.ObjectID, query string) ([]domain.User, error)
	ExportDataCSV(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]byte, error)
}

type userService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	metricsRepo repository.MetricsRepository
}

func NewUserService(userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository, metricsRepo repository.MetricsRepository) UserService {
	return &userService{userRepo: userRepo, workoutRepo: workoutRepo, metricsRepo: metricsRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies the provided fields. A username change is checked
// case-insensitively against the sparse unique index.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username != "" && !strings.EqualFold(username, user.Username) {
			existing, err := s.userRepo.GetByUsernameLower(ctx, strings.ToLower(username))
			if err == nil && existing.ID != userID {
				return nil, ErrUsernameTaken
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
		user.SetUsername(username)
	}
	if input.ThemePreference != nil {
		theme := *input.ThemePreference
		if theme != domain.ThemeLight && theme != domain.ThemeDark {
			return nil, ErrInvalidTheme
		}
		user.ThemePreference = theme
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Height != nil {
		user.Height = input.Height
	}
	if input.Weight != nil {
		user.Weight = input.Weight
	}
	if input.Goals != nil {
		user.Goals = *input.Goals
	}
	if input.ProfilePhoto != nil {
		user.ProfilePhoto = *input.ProfilePhoto
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		// The unique usernameLower index catches a concurrent claim.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("new password must be at least 6 characters")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	user.PasswordHash = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// Search finds users by name, username or phone. Queries shorter than two
// characters short-circuit to an empty list.
func (s *userService) Search(ctx context.Context, userID primitive.ObjectID, query string) ([]domain.User, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchQueryLen {
		return []domain.User{}, nil
	}
	users, err := s.userRepo.Search(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// ExportDataCSV renders the user's completed workouts and daily metrics in
// a date range as one CSV document with a titled section per collection.
func (s *userService) ExportDataCSV(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]byte, error) {
	workouts, err := s.workoutRepo.ListCompletedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	metrics, err := s.metricsRepo.ListInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 && len(metrics) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Workouts"}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"date", "title", "category", "difficulty", "duration_min", "calories", "exercises"}); err != nil {
		return nil, err
	}
	for _, wo := range workouts {
		record := []string{
			wo.Date.Format("2006-01-02"),
			wo.Title,
			wo.Category,
			wo.Difficulty,
			strconv.Itoa(wo.EstimatedDuration),
			strconv.Itoa(wo.Calories),
			strconv.Itoa(len(wo.Exercises)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{"Metrics"}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"date", "calories", "steps", "water_l", "sleep_h", "notes"}); err != nil {
		return nil, err
	}
	for _, m := range metrics {
		record := []string{
			m.Date.Format("2006-01-02"),
			strconv.FormatFloat(m.Calories, 'f', -1, 64),
			strconv.Itoa(m.Steps),
			strconv.FormatFloat(m.WaterIntake, 'f', -1, 64),
			strconv.FormatFloat(m.SleepHours, 'f', -1, 64),
			m.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
