package repository

import (
	"context"
	"time"

	"fitorbit/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConflict is returned when a unique index rejects a write
	// (duplicate friend request pair, duplicate direct conversation,
	// duplicate active session, duplicate metrics date).
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search   string
	Role     domain.Role
	IsActive *bool
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsernameLower(ctx context.Context, usernameLower string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Search does a case-insensitive substring match over name, username
	// and phone, excluding one user.
	Search(ctx context.Context, query string, exclude primitive.ObjectID) ([]domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	// ApplyWorkoutCompletion bumps the aggregate stats in one atomic
	// document update: totalWorkouts+1, avgCalories set to the supplied
	// recomputed value, lastWorkoutDate stamped.
	ApplyWorkoutCompletion(ctx context.Context, userID primitive.ObjectID, avgCalories int, at time.Time) error
	SetRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) error
	SetActive(ctx context.Context, userID primitive.ObjectID, active bool) error
	CountTotal(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
	PlatformAvgCalories(ctx context.Context) (int, error)
}

// SectionRepository defines the interface for workout section data.
type SectionRepository interface {
	Create(ctx context.Context, section *domain.WorkoutSection) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSection, error)
	// FindByNameForUser matches a section name case-insensitively among the
	// user's own sections and the global ones.
	FindByNameForUser(ctx context.Context, name string, userID primitive.ObjectID) (*domain.WorkoutSection, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSection, error)
	Update(ctx context.Context, section *domain.WorkoutSection) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseFilter narrows exercise library listings.
type ExerciseFilter struct {
	SectionID    *primitive.ObjectID
	TargetMuscle string
	Equipment    string
	Difficulty   string
	Search       string
	GlobalOnly   bool
}

// ExerciseRepository defines the interface for exercise library data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// ListVisible returns the user's own exercises plus approved globals,
	// narrowed by the filter.
	ListVisible(ctx context.Context, userID primitive.ObjectID, filter ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListPendingGlobal(ctx context.Context) ([]domain.Exercise, error)
	SetApproval(ctx context.Context, id primitive.ObjectID, isGlobal, approved bool) error
	CountApprovedGlobal(ctx context.Context) (int64, error)
}

// WorkoutFilter narrows workout listings.
type WorkoutFilter struct {
	Status     domain.WorkoutStatus
	Category   string
	IsTemplate *bool
	Date       *time.Time // matches the entry's calendar day
}

// PopularWorkout is an aggregation row for admin analytics.
type PopularWorkout struct {
	Title       string  `bson:"_id" json:"title"`
	Count       int     `bson:"count" json:"count"`
	AvgCalories float64 `bson:"avgCalories" json:"avgCalories"`
}

// WorkoutRepository defines the interface for workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, userID primitive.ObjectID, filter WorkoutFilter) ([]domain.Workout, error)
	ListCompletedBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.WorkoutStatus) error
	// AverageCompletedCalories recomputes the mean calories over the user's
	// completed workouts with calories > 0 via an aggregation pipeline.
	AverageCompletedCalories(ctx context.Context, userID primitive.ObjectID) (int, error)
	CountCompletedWithSection(ctx context.Context, userID, sectionID primitive.ObjectID, since time.Time) (int64, error)
	ExistsWithSection(ctx context.Context, sectionID primitive.ObjectID) (bool, error)
	ListPendingGlobal(ctx context.Context) ([]domain.Workout, error)
	SetApproval(ctx context.Context, id primitive.ObjectID, isGlobal, approved bool) error
	CountCompletedTotal(ctx context.Context) (int64, error)
	PopularGlobal(ctx context.Context, limit int) ([]PopularWorkout, error)
}

// SessionRepository defines the interface for workout-session data.
type SessionRepository interface {
	// Create inserts a new in-progress session; the partial unique index on
	// (workoutId, userId, status=in-progress) surfaces races as ErrConflict.
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetActiveByWorkoutAndUser(ctx context.Context, workoutID, userID primitive.ObjectID) (*domain.WorkoutSession, error)
	AppendCompletedSet(ctx context.Context, id, userID primitive.ObjectID, set domain.CompletedSet) error
	// UpdateProgress applies a partial index update; nil fields are left
	// unchanged.
	UpdateProgress(ctx context.Context, id, userID primitive.ObjectID, exerciseIndex, setIndex *int) error
	Complete(ctx context.Context, id, userID primitive.ObjectID, endTime time.Time) error
}

// FriendRequestRepository defines the interface for friend-request data.
type FriendRequestRepository interface {
	// Create inserts a pending request; the unique pairKey index surfaces a
	// duplicate in either direction as ErrConflict.
	Create(ctx context.Context, request *domain.FriendRequest) (primitive.ObjectID, error)
	GetPendingForRecipient(ctx context.Context, id, recipientID primitive.ObjectID) (*domain.FriendRequest, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.FriendRequestStatus) error
	ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error)
	ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error)
	ListPendingSent(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error)
}

// ConversationRepository defines the interface for conversation data.
type ConversationRepository interface {
	// Create inserts a conversation; for direct conversations the sparse
	// unique memberKey index surfaces duplicate creation as ErrConflict.
	Create(ctx context.Context, conversation *domain.Conversation) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error)
	FindDirectByMemberKey(ctx context.Context, memberKey string) (*domain.Conversation, error)
	GetGroupByJoinCode(ctx context.Context, code string) (*domain.Conversation, error)
	JoinCodeExists(ctx context.Context, code string) (bool, error)
	// AddMember is an idempotent $addToSet.
	AddMember(ctx context.Context, id, userID primitive.ObjectID) error
	ListByMember(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error)
	ListCommunities(ctx context.Context, query string) ([]domain.Conversation, error)
	// Touch bumps updatedAt, which orders the chat list.
	Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// MessageRepository defines the interface for message data.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error)
	// ListRecentDesc returns up to limit messages, newest first.
	ListRecentDesc(ctx context.Context, conversationID primitive.ObjectID, limit int) ([]domain.Message, error)
	// LatestPerConversation batch-fetches the most recent message per
	// conversation id.
	LatestPerConversation(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.Message, error)
}

// PostRepository defines the interface for social post data.
type PostRepository interface {
	Create(ctx context.Context, post *domain.SocialPost) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SocialPost, error)
	// ListVisible returns public posts, the user's own, and friends-only
	// posts authored by the given friends, newest first.
	ListVisible(ctx context.Context, userID primitive.ObjectID, friendIDs []primitive.ObjectID, limit int) ([]domain.SocialPost, error)
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error
	AddComment(ctx context.Context, postID primitive.ObjectID, comment domain.Comment) error
}

// ChallengeRepository defines the interface for challenge data.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *domain.Challenge) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Challenge, error)
	List(ctx context.Context, limit int) ([]domain.Challenge, error)
	// CompleteParticipant marks the user's participation completed at
	// progress 100. An existing participant keeps their first completedAt;
	// an absent one is appended already completed. Both steps are single
	// atomic document updates.
	CompleteParticipant(ctx context.Context, challengeID, userID primitive.ObjectID, at time.Time) error
}

// NotificationRepository defines the interface for notification data.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
	List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
}

// MetricsRepository defines the interface for daily metrics data.
type MetricsRepository interface {
	// Create inserts a daily entry; the unique (userId, date) index
	// surfaces a duplicate day as ErrConflict.
	Create(ctx context.Context, entry *domain.MetricsEntry) (primitive.ObjectID, error)
	GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.MetricsEntry, error)
	ListInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MetricsEntry, error)
	Update(ctx context.Context, entry *domain.MetricsEntry) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
