package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSelfFriendRequest     = errors.New("cannot send a friend request to yourself")
	ErrFriendRequestExists   = errors.New("a friend request already exists between these users")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrNotConversationMember = errors.New("user is not a member of this conversation")
	ErrGroupNameTooShort     = errors.New("group name must be at least 3 characters")
	ErrCommunityAdminOnly    = errors.New("only admins can create communities")
	ErrInvalidJoinCode       = errors.New("invalid join code")
	ErrEmptyMessage          = errors.New("message content cannot be empty")
	ErrEmptyPost             = errors.New("post must have content or media")
	ErrPostNotFound          = errors.New("post not found")
	ErrEmptyComment          = errors.New("comment content cannot be empty")
)

// Join codes avoid ambiguous characters (0/O, 1/I).
const (
	joinCodeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeLength      = 6
	maxJoinCodeAttempts = 5

	defaultFeedLimit    = 50
	defaultMessageLimit = 50
	minGroupNameLen     = 3
	summaryItemLimit    = 10
)

// CreateConversationInput carries the fields accepted when opening a group
// or community conversation.
type CreateConversationInput struct {
	Name        string
	Description string
	Type        domain.ConversationType
	MemberIDs   []primitive.ObjectID
}

// ConversationSummary pairs a conversation with its most recent message for
// the chat list.
type ConversationSummary struct {
	Conversation domain.Conversation `json:"conversation"`
	LastMessage  *domain.Message     `json:"lastMessage,omitempty"`
}

// SocialSummary is the aggregate snapshot backing the social home screen.
type SocialSummary struct {
	FriendCount     int                    `json:"friendCount"`
	PendingReceived []domain.FriendRequest `json:"pendingReceived"`
	PendingSent     []domain.FriendRequest `json:"pendingSent"`
	Conversations   []ConversationSummary  `json:"conversations"`
	RecentPosts     []domain.SocialPost    `json:"recentPosts"`
	Challenges      []domain.Challenge     `json:"challenges"`
	Notifications   []domain.Notification  `json:"notifications"`
	UnreadCount     int                    `json:"unreadCount"`
}

type SocialService interface {
	// Friends.
	SendFriendRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID) (*domain.FriendRequest, error)
	RespondFriendRequest(ctx context.Context, userID, requestID primitive.ObjectID, accept bool) (*domain.FriendRequest, error)
	ListFriends(ctx context.Context, userID primitive.ObjectID) ([]domain.User, error)
	ListPendingRequests(ctx context.Context, userID primitive.ObjectID) (received, sent []domain.FriendRequest, err error)

	// Conversations.
	EnsureDirectConversation(ctx context.Context, userID, otherID primitive.ObjectID) (*domain.Conversation, error)
	CreateGroup(ctx context.Context, userID primitive.ObjectID, role domain.Role, input CreateConversationInput) (*domain.Conversation, error)
	JoinByCode(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Conversation, error)
	JoinCommunity(ctx context.Context, userID, conversationID primitive.ObjectID) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID primitive.ObjectID) ([]ConversationSummary, error)
	ListCommunities(ctx context.Context, query string) ([]domain.Conversation, error)

	// Messages.
	SendMessage(ctx context.Context, userID, conversationID primitive.ObjectID, content string) (*domain.Message, error)
	ListMessages(ctx context.Context, userID, conversationID primitive.ObjectID) ([]domain.Message, error)

	// Posts.
	CreatePost(ctx context.Context, userID primitive.ObjectID, content string, mediaURLs []string, challengeID *primitive.ObjectID, visibility domain.PostVisibility) (*domain.SocialPost, error)
	ListFeed(ctx context.Context, userID primitive.ObjectID) ([]domain.SocialPost, error)
	ToggleLike(ctx context.Context, userID, postID primitive.ObjectID) (liked bool, err error)
	AddComment(ctx context.Context, userID, postID primitive.ObjectID, content string) (*domain.SocialPost, error)

	Summary(ctx context.Context, userID primitive.ObjectID) (*SocialSummary, error)
}

type socialService struct {
	userRepo         repository.UserRepository
	friendRepo       repository.FriendRequestRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	postRepo         repository.PostRepository
	challengeRepo    repository.ChallengeRepository
	notifications    NotificationService
}

func NewSocialService(
	userRepo repository.UserRepository,
	friendRepo repository.FriendRequestRepository,
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	postRepo repository.PostRepository,
	challengeRepo repository.ChallengeRepository,
	notifications NotificationService,
) SocialService {
	return &socialService{
		userRepo:         userRepo,
		friendRepo:       friendRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		postRepo:         postRepo,
		challengeRepo:    challengeRepo,
		notifications:    notifications,
	}
}

// --- Friends ---

// SendFriendRequest creates a pending request. The unique pairKey index
// rejects a duplicate regardless of which side sent first, so two users
// requesting each other concurrently cannot both succeed.
func (s *socialService) SendFriendRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID) (*domain.FriendRequest, error) {
	if requesterID == recipientID {
		return nil, ErrSelfFriendRequest
	}
	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	request := &domain.FriendRequest{
		Requester: requesterID,
		Recipient: recipientID,
		Status:    domain.FriendRequestPending,
	}
	id, err := s.friendRepo.Create(ctx, request)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrFriendRequestExists
		}
		return nil, err
	}
	request.ID = id

	s.notifications.Notify(ctx, recipient.ID, domain.NotificationFriend,
		"New friend request", "You received a friend request",
		map[string]any{"requestId": id.Hex(), "from": requesterID.Hex()})
	return request, nil
}

// RespondFriendRequest accepts or declines a pending request addressed to
// userID. Acceptance also ensures the direct conversation between the pair.
func (s *socialService) RespondFriendRequest(ctx context.Context, userID, requestID primitive.ObjectID, accept bool) (*domain.FriendRequest, error) {
	request, err := s.friendRepo.GetPendingForRecipient(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFriendRequestNotFound
		}
		return nil, err
	}

	status := domain.FriendRequestDeclined
	if accept {
		status = domain.FriendRequestAccepted
	}
	if err := s.friendRepo.SetStatus(ctx, requestID, status); err != nil {
		return nil, err
	}
	request.Status = status

	if accept {
		if _, err := s.EnsureDirectConversation(ctx, userID, request.Requester); err != nil {
			return nil, err
		}
		s.notifications.Notify(ctx, request.Requester, domain.NotificationFriend,
			"Friend request accepted", "Your friend request was accepted",
			map[string]any{"userId": userID.Hex()})
	}
	return request, nil
}

func (s *socialService) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]domain.User, error) {
	accepted, err := s.friendRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends := make([]domain.User, 0, len(accepted))
	for _, req := range accepted {
		friend, err := s.userRepo.GetByID(ctx, req.Other(userID))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue // deleted account
			}
			return nil, err
		}
		friend.PasswordHash = ""
		friends = append(friends, *friend)
	}
	return friends, nil
}

func (s *socialService) ListPendingRequests(ctx context.Context, userID primitive.ObjectID) (received, sent []domain.FriendRequest, err error) {
	if received, err = s.friendRepo.ListPendingReceived(ctx, userID); err != nil {
		return nil, nil, err
	}
	if sent, err = s.friendRepo.ListPendingSent(ctx, userID); err != nil {
		return nil, nil, err
	}
	return received, sent, nil
}

// --- Conversations ---

// EnsureDirectConversation returns the direct conversation between the two
// users, creating it on first need. The sparse unique memberKey index makes
// concurrent creation collapse to a single conversation.
func (s *socialService) EnsureDirectConversation(ctx context.Context, userID, otherID primitive.ObjectID) (*domain.Conversation, error) {
	memberKey := domain.MemberKeyFor([]primitive.ObjectID{userID, otherID})
	existing, err := s.conversationRepo.FindDirectByMemberKey(ctx, memberKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	conversation := &domain.Conversation{
		Type:      domain.ConversationDirect,
		CreatedBy: userID,
		Members:   []primitive.ObjectID{userID, otherID},
	}
	id, err := s.conversationRepo.Create(ctx, conversation)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return s.conversationRepo.FindDirectByMemberKey(ctx, memberKey)
		}
		return nil, err
	}
	conversation.ID = id
	return conversation, nil
}

// CreateGroup opens a group or community. The member set is deduplicated
// and always contains the creator; a group that ends up with exactly two
// members collapses to the direct conversation between them. Communities
// are admin-created, joined by id, and carry no join code.
func (s *socialService) CreateGroup(ctx context.Context, userID primitive.ObjectID, role domain.Role, input CreateConversationInput) (*domain.Conversation, error) {
	kind := input.Type
	if kind != domain.ConversationCommunity {
		kind = domain.ConversationGroup
	}
	if kind == domain.ConversationCommunity && role != domain.RoleAdmin {
		return nil, ErrCommunityAdminOnly
	}

	members := []primitive.ObjectID{userID}
	seen := map[primitive.ObjectID]bool{userID: true}
	for _, id := range input.MemberIDs {
		if !seen[id] {
			seen[id] = true
			members = append(members, id)
		}
	}
	if kind == domain.ConversationGroup && len(members) == 2 {
		return s.EnsureDirectConversation(ctx, userID, members[1])
	}

	name := strings.TrimSpace(input.Name)
	if len(name) < minGroupNameLen {
		return nil, ErrGroupNameTooShort
	}

	conversation := &domain.Conversation{
		Name:        name,
		Type:        kind,
		CreatedBy:   userID,
		Members:     members,
		Description: input.Description,
	}
	if kind == domain.ConversationGroup {
		code, err := s.generateJoinCode(ctx)
		if err != nil {
			return nil, err
		}
		conversation.JoinCode = code
	}
	id, err := s.conversationRepo.Create(ctx, conversation)
	if err != nil {
		return nil, err
	}
	conversation.ID = id
	return conversation, nil
}

// generateJoinCode draws a 6-character code and retries on collision.
func (s *socialService) generateJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := randomJoinCode()
		if err != nil {
			return "", err
		}
		exists, err := s.conversationRepo.JoinCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique join code")
}

func randomJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (s *socialService) JoinByCode(ctx context.Context, userID primitive.ObjectID, code string) (*domain.Conversation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != joinCodeLength {
		return nil, ErrInvalidJoinCode
	}
	conversation, err := s.conversationRepo.GetGroupByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidJoinCode
		}
		return nil, err
	}
	return s.addMember(ctx, conversation, userID)
}

func (s *socialService) JoinCommunity(ctx context.Context, userID, conversationID primitive.ObjectID) (*domain.Conversation, error) {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if conversation.Type != domain.ConversationCommunity {
		return nil, ErrConversationNotFound
	}
	return s.addMember(ctx, conversation, userID)
}

// addMember is idempotent; joining twice leaves one membership.
func (s *socialService) addMember(ctx context.Context, conversation *domain.Conversation, userID primitive.ObjectID) (*domain.Conversation, error) {
	if conversation.HasMember(userID) {
		return conversation, nil
	}
	if err := s.conversationRepo.AddMember(ctx, conversation.ID, userID); err != nil {
		return nil, err
	}
	conversation.Members = append(conversation.Members, userID)
	return conversation, nil
}

// ListConversations returns the user's chat list ordered by recency, each
// entry carrying its latest message. The latest messages come from one
// batch query rather than one per conversation.
func (s *socialService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]ConversationSummary, error) {
	conversations, err := s.conversationRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(conversations))
	for i, c := range conversations {
		ids[i] = c.ID
	}
	latest, err := s.messageRepo.LatestPerConversation(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, len(conversations))
	for i, c := range conversations {
		summaries[i] = ConversationSummary{Conversation: c}
		if msg, ok := latest[c.ID]; ok {
			m := msg
			summaries[i].LastMessage = &m
		}
	}
	return summaries, nil
}

func (s *socialService) ListCommunities(ctx context.Context, query string) ([]domain.Conversation, error) {
	return s.conversationRepo.ListCommunities(ctx, strings.TrimSpace(query))
}

// --- Messages ---

func (s *socialService) SendMessage(ctx context.Context, userID, conversationID primitive.ObjectID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	conversation, err := s.memberConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: conversationID,
		Sender:         userID,
		Content:        content,
	}
	id, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = id

	// Bump the conversation so the chat list reorders.
	if err := s.conversationRepo.Touch(ctx, conversationID, message.CreatedAt); err != nil {
		return nil, err
	}

	for _, member := range conversation.Members {
		if member == userID {
			continue
		}
		s.notifications.Notify(ctx, member, domain.NotificationMessage,
			"New message", content,
			map[string]any{"conversationId": conversationID.Hex(), "from": userID.Hex()})
	}
	return message, nil
}

// ListMessages returns the most recent messages in chronological order.
func (s *socialService) ListMessages(ctx context.Context, userID, conversationID primitive.ObjectID) ([]domain.Message, error) {
	if _, err := s.memberConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListRecentDesc(ctx, conversationID, defaultMessageLimit)
	if err != nil {
		return nil, err
	}
	// The query is newest-first to bound it at the tail; flip for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *socialService) memberConversation(ctx context.Context, userID, conversationID primitive.ObjectID) (*domain.Conversation, error) {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !conversation.HasMember(userID) {
		return nil, ErrNotConversationMember
	}
	return conversation, nil
}

// --- Posts ---

func (s *socialService) CreatePost(ctx context.Context, userID primitive.ObjectID, content string, mediaURLs []string, challengeID *primitive.ObjectID, visibility domain.PostVisibility) (*domain.SocialPost, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(mediaURLs) == 0 {
		return nil, ErrEmptyPost
	}
	if visibility != domain.VisibilityFriends {
		visibility = domain.VisibilityPublic
	}

	post := &domain.SocialPost{
		UserID:      userID,
		Content:     content,
		MediaURLs:   mediaURLs,
		ChallengeID: challengeID,
		Visibility:  visibility,
	}
	id, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = id
	return post, nil
}

func (s *socialService) ListFeed(ctx context.Context, userID primitive.ObjectID) ([]domain.SocialPost, error) {
	accepted, err := s.friendRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	friendIDs := make([]primitive.ObjectID, len(accepted))
	for i, req := range accepted {
		friendIDs[i] = req.Other(userID)
	}
	return s.postRepo.ListVisible(ctx, userID, friendIDs, defaultFeedLimit)
}

// ToggleLike flips the user's like with set semantics: absent adds,
// present removes. The returned flag is the state after the toggle.
func (s *socialService) ToggleLike(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrPostNotFound
		}
		return false, err
	}

	if post.LikedBy(userID) {
		if err := s.postRepo.RemoveLike(ctx, postID, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.postRepo.AddLike(ctx, postID, userID); err != nil {
		return false, err
	}
	if post.UserID != userID {
		s.notifications.Notify(ctx, post.UserID, domain.NotificationPost,
			"New like", "Someone liked your post",
			map[string]any{"postId": postID.Hex(), "from": userID.Hex()})
	}
	return true, nil
}

func (s *socialService) AddComment(ctx context.Context, userID, postID primitive.ObjectID, content string) (*domain.SocialPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := domain.Comment{
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.postRepo.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	post.Comments = append(post.Comments, comment)

	if post.UserID != userID {
		s.notifications.Notify(ctx, post.UserID, domain.NotificationPost,
			"New comment", content,
			map[string]any{"postId": postID.Hex(), "from": userID.Hex()})
	}
	return post, nil
}

// Summary fans the independent reads out concurrently: friends, pending
// requests both ways, the chat list with last-message previews, recent
// posts, open challenges, and the notification feed with its unread count.
func (s *socialService) Summary(ctx context.Context, userID primitive.ObjectID) (*SocialSummary, error) {
	summary := &SocialSummary{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		accepted, err := s.friendRepo.ListAccepted(ctx, userID)
		if err != nil {
			return err
		}
		summary.FriendCount = len(accepted)
		return nil
	})
	g.Go(func() (err error) {
		summary.PendingReceived, err = s.friendRepo.ListPendingReceived(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		summary.PendingSent, err = s.friendRepo.ListPendingSent(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		summary.Conversations, err = s.ListConversations(ctx, userID)
		return err
	})
	g.Go(func() error {
		posts, err := s.ListFeed(ctx, userID)
		if err != nil {
			return err
		}
		if len(posts) > summaryItemLimit {
			posts = posts[:summaryItemLimit]
		}
		summary.RecentPosts = posts
		return nil
	})
	g.Go(func() (err error) {
		summary.Challenges, err = s.challengeRepo.List(ctx, summaryItemLimit)
		return err
	})
	g.Go(func() (err error) {
		summary.Notifications, err = s.notifications.List(ctx, userID, false, summaryItemLimit)
		return err
	})
	g.Go(func() error {
		unread, err := s.notifications.List(ctx, userID, true, defaultNotificationLimit)
		if err != nil {
			return err
		}
		summary.UnreadCount = len(unread)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
