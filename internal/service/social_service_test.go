package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newSocialService(
	userRepo *fakeUserRepo,
	friendRepo *fakeFriendRequestRepo,
	conversationRepo *fakeConversationRepo,
	messageRepo *fakeMessageRepo,
	postRepo *fakePostRepo,
) SocialService {
	return NewSocialService(userRepo, friendRepo, conversationRepo, messageRepo, postRepo, &fakeChallengeRepo{}, quietNotifications())
}

func TestSendFriendRequestToSelf(t *testing.T) {
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, &fakeConversationRepo{}, &fakeMessageRepo{}, &fakePostRepo{})
	userID := primitive.NewObjectID()

	_, err := svc.SendFriendRequest(context.Background(), userID, userID)
	if !errors.Is(err, ErrSelfFriendRequest) {
		t.Fatalf("expected ErrSelfFriendRequest, got %v", err)
	}
}

func TestSendFriendRequestDuplicateEitherDirection(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
			return &domain.User{ID: id, IsActive: true}, nil
		},
	}
	// Simulate the unique pairKey index with an in-memory set.
	seen := map[string]bool{}
	friendRepo := &fakeFriendRequestRepo{
		createFn: func(_ context.Context, request *domain.FriendRequest) (primitive.ObjectID, error) {
			key := domain.PairKeyFor(request.Requester, request.Recipient)
			if seen[key] {
				return primitive.NilObjectID, repository.ErrConflict
			}
			seen[key] = true
			return primitive.NewObjectID(), nil
		},
	}
	svc := newSocialService(userRepo, friendRepo, &fakeConversationRepo{}, &fakeMessageRepo{}, &fakePostRepo{})

	if _, err := svc.SendFriendRequest(context.Background(), alice, bob); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	// The reverse direction must hit the same key.
	_, err := svc.SendFriendRequest(context.Background(), bob, alice)
	if !errors.Is(err, ErrFriendRequestExists) {
		t.Fatalf("expected ErrFriendRequestExists for reversed pair, got %v", err)
	}
}

func TestRespondFriendRequestAcceptOpensConversation(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	requestID := primitive.NewObjectID()

	friendRepo := &fakeFriendRequestRepo{
		getPendingForRecipFn: func(_ context.Context, id, recipientID primitive.ObjectID) (*domain.FriendRequest, error) {
			if id != requestID || recipientID != bob {
				return nil, repository.ErrNotFound
			}
			return &domain.FriendRequest{ID: requestID, Requester: alice, Recipient: bob, Status: domain.FriendRequestPending}, nil
		},
	}
	created := 0
	conversationRepo := &fakeConversationRepo{
		createFn: func(_ context.Context, conversation *domain.Conversation) (primitive.ObjectID, error) {
			created++
			if conversation.Type != domain.ConversationDirect {
				t.Fatalf("expected direct conversation, got %s", conversation.Type)
			}
			return primitive.NewObjectID(), nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, friendRepo, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	request, err := svc.RespondFriendRequest(context.Background(), bob, requestID, true)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if request.Status != domain.FriendRequestAccepted {
		t.Fatalf("expected accepted status, got %s", request.Status)
	}
	if created != 1 {
		t.Fatalf("expected one conversation created, got %d", created)
	}
}

func TestEnsureDirectConversationLosesCreateRace(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	existing := &domain.Conversation{
		ID:      primitive.NewObjectID(),
		Type:    domain.ConversationDirect,
		Members: []primitive.ObjectID{alice, bob},
	}

	calls := 0
	conversationRepo := &fakeConversationRepo{
		findDirectByMemberKeyFn: func(_ context.Context, memberKey string) (*domain.Conversation, error) {
			calls++
			if calls == 1 {
				// First lookup misses; the concurrent writer wins after it.
				return nil, repository.ErrNotFound
			}
			return existing, nil
		},
		createFn: func(context.Context, *domain.Conversation) (primitive.ObjectID, error) {
			return primitive.NilObjectID, repository.ErrConflict
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	conversation, err := svc.EnsureDirectConversation(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("expected race to resolve to existing conversation, got %v", err)
	}
	if conversation.ID != existing.ID {
		t.Fatalf("expected existing conversation %s, got %s", existing.ID.Hex(), conversation.ID.Hex())
	}
}

func TestCreateGroupNameTooShort(t *testing.T) {
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, &fakeConversationRepo{}, &fakeMessageRepo{}, &fakePostRepo{})

	_, err := svc.CreateGroup(context.Background(), primitive.NewObjectID(), domain.RoleUser,
		CreateConversationInput{Name: " ab ", Type: domain.ConversationGroup})
	if !errors.Is(err, ErrGroupNameTooShort) {
		t.Fatalf("expected ErrGroupNameTooShort, got %v", err)
	}
}

func TestCreateGroupDeduplicatesMembers(t *testing.T) {
	creator := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	var captured *domain.Conversation
	conversationRepo := &fakeConversationRepo{
		createFn: func(_ context.Context, conversation *domain.Conversation) (primitive.ObjectID, error) {
			captured = conversation
			return primitive.NewObjectID(), nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	_, err := svc.CreateGroup(context.Background(), creator, domain.RoleUser, CreateConversationInput{
		Name:      "Morning Crew",
		Type:      domain.ConversationGroup,
		MemberIDs: []primitive.ObjectID{alice, creator, bob, alice},
	})
	if err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	if captured == nil {
		t.Fatal("conversation was never created")
	}
	want := []primitive.ObjectID{creator, alice, bob}
	if len(captured.Members) != len(want) {
		t.Fatalf("expected %d unique members, got %d", len(want), len(captured.Members))
	}
	for i, id := range want {
		if captured.Members[i] != id {
			t.Fatalf("member %d: expected %s, got %s", i, id.Hex(), captured.Members[i].Hex())
		}
	}
}

func TestCreateGroupWithOneOtherMemberIsDirect(t *testing.T) {
	creator := primitive.NewObjectID()
	other := primitive.NewObjectID()
	existing := &domain.Conversation{
		ID:      primitive.NewObjectID(),
		Type:    domain.ConversationDirect,
		Members: []primitive.ObjectID{creator, other},
	}

	conversationRepo := &fakeConversationRepo{
		findDirectByMemberKeyFn: func(_ context.Context, memberKey string) (*domain.Conversation, error) {
			if memberKey != domain.MemberKeyFor([]primitive.ObjectID{creator, other}) {
				t.Fatalf("unexpected member key %q", memberKey)
			}
			return existing, nil
		},
		createFn: func(context.Context, *domain.Conversation) (primitive.ObjectID, error) {
			t.Fatal("a two-member group must reuse the direct conversation")
			return primitive.NilObjectID, nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	conversation, err := svc.CreateGroup(context.Background(), creator, domain.RoleUser, CreateConversationInput{
		Type:      domain.ConversationGroup,
		MemberIDs: []primitive.ObjectID{other, other},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if conversation.ID != existing.ID {
		t.Fatalf("expected existing direct conversation %s, got %s", existing.ID.Hex(), conversation.ID.Hex())
	}
}

func TestCreateCommunityRequiresAdmin(t *testing.T) {
	conversationRepo := &fakeConversationRepo{
		createFn: func(context.Context, *domain.Conversation) (primitive.ObjectID, error) {
			t.Fatal("a regular user must not create a community")
			return primitive.NilObjectID, nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	_, err := svc.CreateGroup(context.Background(), primitive.NewObjectID(), domain.RoleUser,
		CreateConversationInput{Name: "Runners United", Type: domain.ConversationCommunity})
	if !errors.Is(err, ErrCommunityAdminOnly) {
		t.Fatalf("expected ErrCommunityAdminOnly, got %v", err)
	}
}

func TestCreateCommunityHasNoJoinCode(t *testing.T) {
	var captured *domain.Conversation
	conversationRepo := &fakeConversationRepo{
		createFn: func(_ context.Context, conversation *domain.Conversation) (primitive.ObjectID, error) {
			captured = conversation
			return primitive.NewObjectID(), nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	_, err := svc.CreateGroup(context.Background(), primitive.NewObjectID(), domain.RoleAdmin,
		CreateConversationInput{Name: "Runners United", Type: domain.ConversationCommunity})
	if err != nil {
		t.Fatalf("create community failed: %v", err)
	}
	if captured.Type != domain.ConversationCommunity {
		t.Fatalf("expected community, got %s", captured.Type)
	}
	if captured.JoinCode != "" {
		t.Fatalf("communities are joined by id, got join code %q", captured.JoinCode)
	}
}

func TestCreateGroupJoinCodeFormat(t *testing.T) {
	var captured *domain.Conversation
	conversationRepo := &fakeConversationRepo{
		createFn: func(_ context.Context, conversation *domain.Conversation) (primitive.ObjectID, error) {
			captured = conversation
			return primitive.NewObjectID(), nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	if _, err := svc.CreateGroup(context.Background(), primitive.NewObjectID(), domain.RoleUser,
		CreateConversationInput{Name: "Morning Crew", Type: domain.ConversationGroup}); err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	if captured == nil {
		t.Fatal("conversation was never created")
	}
	if len(captured.JoinCode) != joinCodeLength {
		t.Fatalf("expected %d-char join code, got %q", joinCodeLength, captured.JoinCode)
	}
	for _, r := range captured.JoinCode {
		if !strings.ContainsRune(joinCodeAlphabet, r) {
			t.Fatalf("join code %q contains %q, outside the allowed alphabet", captured.JoinCode, r)
		}
	}
}

func TestCreateGroupJoinCodeRetriesOnCollision(t *testing.T) {
	attempts := 0
	conversationRepo := &fakeConversationRepo{
		joinCodeExistsFn: func(context.Context, string) (bool, error) {
			attempts++
			return attempts <= 2, nil // first two codes collide
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	if _, err := svc.CreateGroup(context.Background(), primitive.NewObjectID(), domain.RoleUser,
		CreateConversationInput{Name: "Evening Crew", Type: domain.ConversationGroup}); err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 uniqueness checks, got %d", attempts)
	}
}

func TestSendMessageValidation(t *testing.T) {
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()
	conversationID := primitive.NewObjectID()

	conversationRepo := &fakeConversationRepo{
		getByIDFn: func(context.Context, primitive.ObjectID) (*domain.Conversation, error) {
			return &domain.Conversation{
				ID:      conversationID,
				Type:    domain.ConversationDirect,
				Members: []primitive.ObjectID{member, primitive.NewObjectID()},
			}, nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	if _, err := svc.SendMessage(context.Background(), member, conversationID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage for whitespace content, got %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), outsider, conversationID, "hello"); !errors.Is(err, ErrNotConversationMember) {
		t.Fatalf("expected ErrNotConversationMember, got %v", err)
	}
}

func TestSendMessageTouchesConversation(t *testing.T) {
	member := primitive.NewObjectID()
	conversationID := primitive.NewObjectID()

	touched := false
	conversationRepo := &fakeConversationRepo{
		getByIDFn: func(context.Context, primitive.ObjectID) (*domain.Conversation, error) {
			return &domain.Conversation{ID: conversationID, Members: []primitive.ObjectID{member}}, nil
		},
		touchFn: func(context.Context, primitive.ObjectID, time.Time) error {
			touched = true
			return nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, &fakeMessageRepo{}, &fakePostRepo{})

	message, err := svc.SendMessage(context.Background(), member, conversationID, "  hello there  ")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if message.Content != "hello there" {
		t.Fatalf("expected trimmed content, got %q", message.Content)
	}
	if !touched {
		t.Fatal("conversation updatedAt was not bumped")
	}
}

func TestListMessagesChronologicalOrder(t *testing.T) {
	member := primitive.NewObjectID()
	conversationID := primitive.NewObjectID()
	base := time.Now()

	conversationRepo := &fakeConversationRepo{
		getByIDFn: func(context.Context, primitive.ObjectID) (*domain.Conversation, error) {
			return &domain.Conversation{ID: conversationID, Members: []primitive.ObjectID{member}}, nil
		},
	}
	messageRepo := &fakeMessageRepo{
		listRecentDescFn: func(context.Context, primitive.ObjectID, int) ([]domain.Message, error) {
			// Newest first, as the store returns them.
			return []domain.Message{
				{Content: "third", CreatedAt: base.Add(2 * time.Second)},
				{Content: "second", CreatedAt: base.Add(time.Second)},
				{Content: "first", CreatedAt: base},
			}, nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, conversationRepo, messageRepo, &fakePostRepo{})

	messages, err := svc.ListMessages(context.Background(), member, conversationID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(messages))
	}
	for i, content := range want {
		if messages[i].Content != content {
			t.Fatalf("position %d: expected %q, got %q", i, content, messages[i].Content)
		}
	}
}

func TestToggleLikeSetSemantics(t *testing.T) {
	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	post := &domain.SocialPost{ID: postID, UserID: primitive.NewObjectID()}

	postRepo := &fakePostRepo{
		getByIDFn: func(context.Context, primitive.ObjectID) (*domain.SocialPost, error) {
			snapshot := *post
			return &snapshot, nil
		},
		addLikeFn: func(_ context.Context, _, likerID primitive.ObjectID) error {
			post.Likes = append(post.Likes, likerID)
			return nil
		},
		removeLikeFn: func(_ context.Context, _, likerID primitive.ObjectID) error {
			kept := post.Likes[:0]
			for _, id := range post.Likes {
				if id != likerID {
					kept = append(kept, id)
				}
			}
			post.Likes = kept
			return nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, &fakeConversationRepo{}, &fakeMessageRepo{}, postRepo)

	liked, err := svc.ToggleLike(context.Background(), userID, postID)
	if err != nil || !liked {
		t.Fatalf("expected first toggle to like, got liked=%v err=%v", liked, err)
	}
	liked, err = svc.ToggleLike(context.Background(), userID, postID)
	if err != nil || liked {
		t.Fatalf("expected second toggle to unlike, got liked=%v err=%v", liked, err)
	}
	if len(post.Likes) != 0 {
		t.Fatalf("expected empty like set after toggle pair, got %d", len(post.Likes))
	}
}

func TestCreatePostRequiresContentOrMedia(t *testing.T) {
	svc := newSocialService(&fakeUserRepo{}, &fakeFriendRequestRepo{}, &fakeConversationRepo{}, &fakeMessageRepo{}, &fakePostRepo{})

	_, err := svc.CreatePost(context.Background(), primitive.NewObjectID(), "   ", nil, nil, domain.VisibilityPublic)
	if !errors.Is(err, ErrEmptyPost) {
		t.Fatalf("expected ErrEmptyPost, got %v", err)
	}
}

func TestListFeedPassesFriendIDs(t *testing.T) {
	userID := primitive.NewObjectID()
	friendID := primitive.NewObjectID()

	friendRepo := &fakeFriendRequestRepo{
		listAcceptedFn: func(context.Context, primitive.ObjectID) ([]domain.FriendRequest, error) {
			return []domain.FriendRequest{{Requester: friendID, Recipient: userID, Status: domain.FriendRequestAccepted}}, nil
		},
	}
	var gotFriends []primitive.ObjectID
	postRepo := &fakePostRepo{
		listVisibleFn: func(_ context.Context, _ primitive.ObjectID, friendIDs []primitive.ObjectID, _ int) ([]domain.SocialPost, error) {
			gotFriends = friendIDs
			return nil, nil
		},
	}
	svc := newSocialService(&fakeUserRepo{}, friendRepo, &fakeConversationRepo{}, &fakeMessageRepo{}, postRepo)

	if _, err := svc.ListFeed(context.Background(), userID); err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(gotFriends) != 1 || gotFriends[0] != friendID {
		t.Fatalf("expected feed query to carry friend %s, got %v", friendID.Hex(), gotFriends)
	}
}

func TestSummaryAggregatesSocialState(t *testing.T) {
	userID := primitive.NewObjectID()
	friendID := primitive.NewObjectID()
	conversationID := primitive.NewObjectID()

	friendRepo := &fakeFriendRequestRepo{
		listAcceptedFn: func(context.Context, primitive.ObjectID) ([]domain.FriendRequest, error) {
			return []domain.FriendRequest{{Requester: friendID, Recipient: userID, Status: domain.FriendRequestAccepted}}, nil
		},
		listPendingReceivedFn: func(context.Context, primitive.ObjectID) ([]domain.FriendRequest, error) {
			return []domain.FriendRequest{{Recipient: userID, Status: domain.FriendRequestPending}}, nil
		},
		listPendingSentFn: func(context.Context, primitive.ObjectID) ([]domain.FriendRequest, error) {
			return []domain.FriendRequest{{Requester: userID, Status: domain.FriendRequestPending}}, nil
		},
	}
	conversationRepo := &fakeConversationRepo{
		listByMemberFn: func(context.Context, primitive.ObjectID) ([]domain.Conversation, error) {
			return []domain.Conversation{{ID: conversationID, Type: domain.ConversationDirect, Members: []primitive.ObjectID{userID, friendID}}}, nil
		},
	}
	messageRepo := &fakeMessageRepo{
		latestPerConversationFn: func(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]domain.Message, error) {
			return map[primitive.ObjectID]domain.Message{
				conversationID: {ConversationID: conversationID, Sender: friendID, Content: "see you at 7"},
			}, nil
		},
	}
	postRepo := &fakePostRepo{
		listVisibleFn: func(context.Context, primitive.ObjectID, []primitive.ObjectID, int) ([]domain.SocialPost, error) {
			return []domain.SocialPost{{UserID: friendID, Content: "new PR today"}}, nil
		},
	}
	challengeRepo := &fakeChallengeRepo{
		listFn: func(context.Context, int) ([]domain.Challenge, error) {
			return []domain.Challenge{{Title: "10k Steps"}}, nil
		},
	}
	notificationRepo := &fakeNotificationRepo{
		listFn: func(_ context.Context, _ primitive.ObjectID, unreadOnly bool, _ int) ([]domain.Notification, error) {
			if unreadOnly {
				return []domain.Notification{{Title: "New message"}, {Title: "New like"}}, nil
			}
			return []domain.Notification{{Title: "New message"}, {Title: "New like"}, {Title: "Welcome", Read: true}}, nil
		},
	}
	svc := NewSocialService(&fakeUserRepo{}, friendRepo, conversationRepo, messageRepo, postRepo,
		challengeRepo, NewNotificationService(notificationRepo))

	summary, err := svc.Summary(context.Background(), userID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.FriendCount != 1 {
		t.Fatalf("expected 1 friend, got %d", summary.FriendCount)
	}
	if len(summary.PendingReceived) != 1 || len(summary.PendingSent) != 1 {
		t.Fatalf("expected one pending request each way, got %d/%d", len(summary.PendingReceived), len(summary.PendingSent))
	}
	if len(summary.Conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(summary.Conversations))
	}
	if summary.Conversations[0].LastMessage == nil || summary.Conversations[0].LastMessage.Content != "see you at 7" {
		t.Fatalf("expected the latest message preview, got %+v", summary.Conversations[0].LastMessage)
	}
	if len(summary.RecentPosts) != 1 || len(summary.Challenges) != 1 {
		t.Fatalf("expected posts and challenges, got %d/%d", len(summary.RecentPosts), len(summary.Challenges))
	}
	if len(summary.Notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(summary.Notifications))
	}
	if summary.UnreadCount != 2 {
		t.Fatalf("expected 2 unread notifications, got %d", summary.UnreadCount)
	}
}
