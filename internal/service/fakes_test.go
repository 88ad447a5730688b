package service

import (
	"context"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Function-field fakes. A nil field falls back to a harmless default so
// each test only wires the calls it cares about.

type fakeUserRepo struct {
	createFn                 func(context.Context, *domain.User) (primitive.ObjectID, error)
	getByIDFn                func(context.Context, primitive.ObjectID) (*domain.User, error)
	getByEmailFn             func(context.Context, string) (*domain.User, error)
	getByUsernameLowerFn     func(context.Context, string) (*domain.User, error)
	updateFn                 func(context.Context, *domain.User) error
	searchFn                 func(context.Context, string, primitive.ObjectID) ([]domain.User, error)
	applyWorkoutCompletionFn func(context.Context, primitive.ObjectID, int, time.Time) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeUserRepo) GetByUsernameLower(ctx context.Context, usernameLower string) (*domain.User, error) {
	if f.getByUsernameLowerFn != nil {
		return f.getByUsernameLowerFn(ctx, usernameLower)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, user)
	}
	return nil
}
func (f *fakeUserRepo) Search(ctx context.Context, query string, exclude primitive.ObjectID) ([]domain.User, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, query, exclude)
	}
	return nil, nil
}
func (f *fakeUserRepo) List(context.Context, repository.UserFilter) ([]domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) ApplyWorkoutCompletion(ctx context.Context, userID primitive.ObjectID, avgCalories int, at time.Time) error {
	if f.applyWorkoutCompletionFn != nil {
		return f.applyWorkoutCompletionFn(ctx, userID, avgCalories, at)
	}
	return nil
}
func (f *fakeUserRepo) SetRole(context.Context, primitive.ObjectID, domain.Role) error { return nil }
func (f *fakeUserRepo) SetActive(context.Context, primitive.ObjectID, bool) error      { return nil }
func (f *fakeUserRepo) CountTotal(context.Context) (int64, error)                      { return 0, nil }
func (f *fakeUserRepo) CountCreatedSince(context.Context, time.Time) (int64, error)    { return 0, nil }
func (f *fakeUserRepo) CountActiveSince(context.Context, time.Time) (int64, error)     { return 0, nil }
func (f *fakeUserRepo) PlatformAvgCalories(context.Context) (int, error)               { return 0, nil }

type fakeWorkoutRepo struct {
	getByIDAndUserFn           func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.Workout, error)
	listCompletedBetweenFn      func(context.Context, primitive.ObjectID, time.Time, time.Time) ([]domain.Workout, error)
	setStatusFn                 func(context.Context, primitive.ObjectID, domain.WorkoutStatus) error
	averageCompletedCaloriesFn  func(context.Context, primitive.ObjectID) (int, error)
	countCompletedWithSectionFn func(context.Context, primitive.ObjectID, primitive.ObjectID, time.Time) (int64, error)
	existsWithSectionFn         func(context.Context, primitive.ObjectID) (bool, error)
}

func (f *fakeWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}
func (f *fakeWorkoutRepo) GetByID(context.Context, primitive.ObjectID) (*domain.Workout, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeWorkoutRepo) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	if f.getByIDAndUserFn != nil {
		return f.getByIDAndUserFn(ctx, id, userID)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeWorkoutRepo) List(context.Context, primitive.ObjectID, repository.WorkoutFilter) ([]domain.Workout, error) {
	return nil, nil
}
func (f *fakeWorkoutRepo) ListCompletedBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error) {
	if f.listCompletedBetweenFn != nil {
		return f.listCompletedBetweenFn(ctx, userID, from, to)
	}
	return nil, nil
}
func (f *fakeWorkoutRepo) Update(context.Context, *domain.Workout) error { return nil }
func (f *fakeWorkoutRepo) Delete(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}
func (f *fakeWorkoutRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.WorkoutStatus) error {
	if f.setStatusFn != nil {
		return f.setStatusFn(ctx, id, status)
	}
	return nil
}
func (f *fakeWorkoutRepo) AverageCompletedCalories(ctx context.Context, userID primitive.ObjectID) (int, error) {
	if f.averageCompletedCaloriesFn != nil {
		return f.averageCompletedCaloriesFn(ctx, userID)
	}
	return 0, nil
}
func (f *fakeWorkoutRepo) CountCompletedWithSection(ctx context.Context, userID, sectionID primitive.ObjectID, since time.Time) (int64, error) {
	if f.countCompletedWithSectionFn != nil {
		return f.countCompletedWithSectionFn(ctx, userID, sectionID, since)
	}
	return 0, nil
}
func (f *fakeWorkoutRepo) ExistsWithSection(ctx context.Context, sectionID primitive.ObjectID) (bool, error) {
	if f.existsWithSectionFn != nil {
		return f.existsWithSectionFn(ctx, sectionID)
	}
	return false, nil
}
func (f *fakeWorkoutRepo) ListPendingGlobal(context.Context) ([]domain.Workout, error) {
	return nil, nil
}
func (f *fakeWorkoutRepo) SetApproval(context.Context, primitive.ObjectID, bool, bool) error {
	return nil
}
func (f *fakeWorkoutRepo) CountCompletedTotal(context.Context) (int64, error) { return 0, nil }
func (f *fakeWorkoutRepo) PopularGlobal(context.Context, int) ([]repository.PopularWorkout, error) {
	return nil, nil
}

type fakeSessionRepo struct {
	createFn                    func(context.Context, *domain.WorkoutSession) (primitive.ObjectID, error)
	getByIDAndUserFn            func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.WorkoutSession, error)
	getActiveByUserFn           func(context.Context, primitive.ObjectID) (*domain.WorkoutSession, error)
	getActiveByWorkoutAndUserFn func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.WorkoutSession, error)
	appendCompletedSetFn        func(context.Context, primitive.ObjectID, primitive.ObjectID, domain.CompletedSet) error
	updateProgressFn            func(context.Context, primitive.ObjectID, primitive.ObjectID, *int, *int) error
	completeFn                  func(context.Context, primitive.ObjectID, primitive.ObjectID, time.Time) error
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, session)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeSessionRepo) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	if f.getByIDAndUserFn != nil {
		return f.getByIDAndUserFn(ctx, id, userID)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeSessionRepo) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	if f.getActiveByUserFn != nil {
		return f.getActiveByUserFn(ctx, userID)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeSessionRepo) GetActiveByWorkoutAndUser(ctx context.Context, workoutID, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	if f.getActiveByWorkoutAndUserFn != nil {
		return f.getActiveByWorkoutAndUserFn(ctx, workoutID, userID)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeSessionRepo) AppendCompletedSet(ctx context.Context, id, userID primitive.ObjectID, set domain.CompletedSet) error {
	if f.appendCompletedSetFn != nil {
		return f.appendCompletedSetFn(ctx, id, userID, set)
	}
	return nil
}
func (f *fakeSessionRepo) UpdateProgress(ctx context.Context, id, userID primitive.ObjectID, exerciseIndex, setIndex *int) error {
	if f.updateProgressFn != nil {
		return f.updateProgressFn(ctx, id, userID, exerciseIndex, setIndex)
	}
	return nil
}
func (f *fakeSessionRepo) Complete(ctx context.Context, id, userID primitive.ObjectID, endTime time.Time) error {
	if f.completeFn != nil {
		return f.completeFn(ctx, id, userID, endTime)
	}
	return nil
}

type fakeFriendRequestRepo struct {
	createFn                func(context.Context, *domain.FriendRequest) (primitive.ObjectID, error)
	getPendingForRecipFn    func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.FriendRequest, error)
	setStatusFn             func(context.Context, primitive.ObjectID, domain.FriendRequestStatus) error
	listAcceptedFn          func(context.Context, primitive.ObjectID) ([]domain.FriendRequest, error)
	listPendingReceivedFn   func(context.Context, primitive.ObjectID) ([]domain.FriendRequest, error)
	listPendingSentFn       func(context.Context, primitive.ObjectID) ([]domain.FriendRequest, error)
}

func (f *fakeFriendRequestRepo) Create(ctx context.Context, request *domain.FriendRequest) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, request)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeFriendRequestRepo) GetPendingForRecipient(ctx context.Context, id, recipientID primitive.ObjectID) (*domain.FriendRequest, error) {
	if f.getPendingForRecipFn != nil {
		return f.getPendingForRecipFn(ctx, id, recipientID)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeFriendRequestRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.FriendRequestStatus) error {
	if f.setStatusFn != nil {
		return f.setStatusFn(ctx, id, status)
	}
	return nil
}
func (f *fakeFriendRequestRepo) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error) {
	if f.listAcceptedFn != nil {
		return f.listAcceptedFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeFriendRequestRepo) ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error) {
	if f.listPendingReceivedFn != nil {
		return f.listPendingReceivedFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeFriendRequestRepo) ListPendingSent(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error) {
	if f.listPendingSentFn != nil {
		return f.listPendingSentFn(ctx, userID)
	}
	return nil, nil
}

type fakeConversationRepo struct {
	createFn                func(context.Context, *domain.Conversation) (primitive.ObjectID, error)
	getByIDFn               func(context.Context, primitive.ObjectID) (*domain.Conversation, error)
	findDirectByMemberKeyFn func(context.Context, string) (*domain.Conversation, error)
	getGroupByJoinCodeFn    func(context.Context, string) (*domain.Conversation, error)
	joinCodeExistsFn        func(context.Context, string) (bool, error)
	addMemberFn             func(context.Context, primitive.ObjectID, primitive.ObjectID) error
	listByMemberFn          func(context.Context, primitive.ObjectID) ([]domain.Conversation, error)
	touchFn                 func(context.Context, primitive.ObjectID, time.Time) error
}

func (f *fakeConversationRepo) Create(ctx context.Context, conversation *domain.Conversation) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, conversation)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeConversationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeConversationRepo) FindDirectByMemberKey(ctx context.Context, memberKey string) (*domain.Conversation, error) {
	if f.findDirectByMemberKeyFn != nil {
		return f.findDirectByMemberKeyFn(ctx, memberKey)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeConversationRepo) GetGroupByJoinCode(ctx context.Context, code string) (*domain.Conversation, error) {
	if f.getGroupByJoinCodeFn != nil {
		return f.getGroupByJoinCodeFn(ctx, code)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeConversationRepo) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	if f.joinCodeExistsFn != nil {
		return f.joinCodeExistsFn(ctx, code)
	}
	return false, nil
}
func (f *fakeConversationRepo) AddMember(ctx context.Context, id, userID primitive.ObjectID) error {
	if f.addMemberFn != nil {
		return f.addMemberFn(ctx, id, userID)
	}
	return nil
}
func (f *fakeConversationRepo) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error) {
	if f.listByMemberFn != nil {
		return f.listByMemberFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeConversationRepo) ListCommunities(context.Context, string) ([]domain.Conversation, error) {
	return nil, nil
}
func (f *fakeConversationRepo) Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if f.touchFn != nil {
		return f.touchFn(ctx, id, at)
	}
	return nil
}

type fakeMessageRepo struct {
	createFn                func(context.Context, *domain.Message) (primitive.ObjectID, error)
	listRecentDescFn        func(context.Context, primitive.ObjectID, int) ([]domain.Message, error)
	latestPerConversationFn func(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]domain.Message, error)
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, message)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeMessageRepo) ListRecentDesc(ctx context.Context, conversationID primitive.ObjectID, limit int) ([]domain.Message, error) {
	if f.listRecentDescFn != nil {
		return f.listRecentDescFn(ctx, conversationID, limit)
	}
	return nil, nil
}
func (f *fakeMessageRepo) LatestPerConversation(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.Message, error) {
	if f.latestPerConversationFn != nil {
		return f.latestPerConversationFn(ctx, ids)
	}
	return map[primitive.ObjectID]domain.Message{}, nil
}

type fakePostRepo struct {
	createFn     func(context.Context, *domain.SocialPost) (primitive.ObjectID, error)
	getByIDFn    func(context.Context, primitive.ObjectID) (*domain.SocialPost, error)
	listVisibleFn func(context.Context, primitive.ObjectID, []primitive.ObjectID, int) ([]domain.SocialPost, error)
	addLikeFn    func(context.Context, primitive.ObjectID, primitive.ObjectID) error
	removeLikeFn func(context.Context, primitive.ObjectID, primitive.ObjectID) error
	addCommentFn func(context.Context, primitive.ObjectID, domain.Comment) error
}

func (f *fakePostRepo) Create(ctx context.Context, post *domain.SocialPost) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, post)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakePostRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SocialPost, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (f *fakePostRepo) ListVisible(ctx context.Context, userID primitive.ObjectID, friendIDs []primitive.ObjectID, limit int) ([]domain.SocialPost, error) {
	if f.listVisibleFn != nil {
		return f.listVisibleFn(ctx, userID, friendIDs, limit)
	}
	return nil, nil
}
func (f *fakePostRepo) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	if f.addLikeFn != nil {
		return f.addLikeFn(ctx, postID, userID)
	}
	return nil
}
func (f *fakePostRepo) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	if f.removeLikeFn != nil {
		return f.removeLikeFn(ctx, postID, userID)
	}
	return nil
}
func (f *fakePostRepo) AddComment(ctx context.Context, postID primitive.ObjectID, comment domain.Comment) error {
	if f.addCommentFn != nil {
		return f.addCommentFn(ctx, postID, comment)
	}
	return nil
}

type fakeChallengeRepo struct {
	getByIDFn             func(context.Context, primitive.ObjectID) (*domain.Challenge, error)
	listFn                func(context.Context, int) ([]domain.Challenge, error)
	completeParticipantFn func(context.Context, primitive.ObjectID, primitive.ObjectID, time.Time) error
}

func (f *fakeChallengeRepo) Create(ctx context.Context, challenge *domain.Challenge) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}
func (f *fakeChallengeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Challenge, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeChallengeRepo) List(ctx context.Context, limit int) ([]domain.Challenge, error) {
	if f.listFn != nil {
		return f.listFn(ctx, limit)
	}
	return nil, nil
}
func (f *fakeChallengeRepo) CompleteParticipant(ctx context.Context, challengeID, userID primitive.ObjectID, at time.Time) error {
	if f.completeParticipantFn != nil {
		return f.completeParticipantFn(ctx, challengeID, userID, at)
	}
	return nil
}

type fakeNotificationRepo struct {
	createFn func(context.Context, *domain.Notification) (primitive.ObjectID, error)
	listFn   func(context.Context, primitive.ObjectID, bool, int) ([]domain.Notification, error)
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeNotificationRepo) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID, unreadOnly, limit)
	}
	return nil, nil
}
func (f *fakeNotificationRepo) MarkRead(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

type fakeMetricsRepo struct {
	createFn         func(context.Context, *domain.MetricsEntry) (primitive.ObjectID, error)
	getByIDAndUserFn func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.MetricsEntry, error)
	listInRangeFn    func(context.Context, primitive.ObjectID, time.Time, time.Time) ([]domain.MetricsEntry, error)
}

func (f *fakeMetricsRepo) Create(ctx context.Context, entry *domain.MetricsEntry) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeMetricsRepo) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.MetricsEntry, error) {
	if f.getByIDAndUserFn != nil {
		return f.getByIDAndUserFn(ctx, id, userID)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeMetricsRepo) ListInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MetricsEntry, error) {
	if f.listInRangeFn != nil {
		return f.listInRangeFn(ctx, userID, from, to)
	}
	return nil, nil
}
func (f *fakeMetricsRepo) Update(context.Context, *domain.MetricsEntry) error { return nil }
func (f *fakeMetricsRepo) Delete(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

type fakeSectionRepo struct {
	createFn            func(context.Context, *domain.WorkoutSection) (primitive.ObjectID, error)
	getByIDFn           func(context.Context, primitive.ObjectID) (*domain.WorkoutSection, error)
	findByNameForUserFn func(context.Context, string, primitive.ObjectID) (*domain.WorkoutSection, error)
	listForUserFn       func(context.Context, primitive.ObjectID) ([]domain.WorkoutSection, error)
	deleteFn            func(context.Context, primitive.ObjectID) error
}

func (f *fakeSectionRepo) Create(ctx context.Context, section *domain.WorkoutSection) (primitive.ObjectID, error) {
	if f.createFn != nil {
		return f.createFn(ctx, section)
	}
	return primitive.NewObjectID(), nil
}
func (f *fakeSectionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSection, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeSectionRepo) FindByNameForUser(ctx context.Context, name string, userID primitive.ObjectID) (*domain.WorkoutSection, error) {
	if f.findByNameForUserFn != nil {
		return f.findByNameForUserFn(ctx, name, userID)
	}
	return nil, repository.ErrNotFound
}
func (f *fakeSectionRepo) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSection, error) {
	if f.listForUserFn != nil {
		return f.listForUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeSectionRepo) Update(context.Context, *domain.WorkoutSection) error { return nil }
func (f *fakeSectionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

// quietNotifications is a NotificationService that records nothing.
func quietNotifications() NotificationService {
	return NewNotificationService(&fakeNotificationRepo{})
}
