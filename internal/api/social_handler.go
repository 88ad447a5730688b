package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialHandler serves friends, conversations, messages and posts.
type SocialHandler struct {
	socialService service.SocialService
}

func NewSocialHandler(socialService service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

type FriendRequestRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
}

type RespondRequestRequest struct {
	Accept bool `json:"accept"`
}

// Name is optional because a group that resolves to exactly two members
// collapses to the unnamed direct conversation.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type" binding:"omitempty,oneof=group community"`
	MemberIDs   []string `json:"memberIds"`
}

type JoinByCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreatePostRequest struct {
	Content     string   `json:"content"`
	MediaURLs   []string `json:"mediaUrls"`
	ChallengeID string   `json:"challengeId"`
	Visibility  string   `json:"visibility" binding:"omitempty,oneof=public friends"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// --- Friends ---

func (h *SocialHandler) SendFriendRequest(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req FriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipientId format")
		return
	}

	request, err := h.socialService.SendFriendRequest(c.Request.Context(), userID, recipientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFriendRequest):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrFriendRequestExists):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to send friend request")
		}
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *SocialHandler) RespondFriendRequest(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RespondRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	request, err := h.socialService.RespondFriendRequest(c.Request.Context(), userID, requestID, req.Accept)
	if err != nil {
		if errors.Is(err, service.ErrFriendRequestNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to respond to friend request")
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *SocialHandler) ListFriends(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	friends, err := h.socialService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list friends")
		return
	}
	responses := make([]UserResponse, len(friends))
	for i := range friends {
		responses[i] = MapUserToResponse(&friends[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *SocialHandler) ListPendingRequests(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	received, sent, err := h.socialService.ListPendingRequests(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list friend requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": received, "sent": sent})
}

// --- Conversations ---

func (h *SocialHandler) CreateDirectConversation(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	otherID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if otherID == userID {
		abortWithError(c, http.StatusBadRequest, "Cannot start a conversation with yourself")
		return
	}

	conversation, err := h.socialService.EnsureDirectConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to open conversation")
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (h *SocialHandler) CreateGroup(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	memberIDs := make([]primitive.ObjectID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid memberIds format")
			return
		}
		memberIDs = append(memberIDs, id)
	}

	conversation, err := h.socialService.CreateGroup(c.Request.Context(), userID, userRoleFromContext(c), service.CreateConversationInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        domain.ConversationType(req.Type),
		MemberIDs:   memberIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNameTooShort):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCommunityAdminOnly):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create group")
		}
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

func (h *SocialHandler) JoinByCode(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	conversation, err := h.socialService.JoinByCode(c.Request.Context(), userID, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidJoinCode) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to join group")
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (h *SocialHandler) JoinCommunity(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	conversation, err := h.socialService.JoinCommunity(c.Request.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to join community")
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (h *SocialHandler) ListConversations(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	summaries, err := h.socialService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *SocialHandler) ListCommunities(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}
	communities, err := h.socialService.ListCommunities(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list communities")
		return
	}
	c.JSON(http.StatusOK, communities)
}

// --- Messages ---

func (h *SocialHandler) SendMessage(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	message, err := h.socialService.SendMessage(c.Request.Context(), userID, conversationID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConversationNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotConversationMember):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *SocialHandler) ListMessages(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.socialService.ListMessages(c.Request.Context(), userID, conversationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotConversationMember):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to list messages")
		}
		return
	}
	c.JSON(http.StatusOK, messages)
}

// --- Posts ---

func (h *SocialHandler) CreatePost(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var challengeID *primitive.ObjectID
	if req.ChallengeID != "" {
		id, err := primitive.ObjectIDFromHex(req.ChallengeID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid challengeId format")
			return
		}
		challengeID = &id
	}

	post, err := h.socialService.CreatePost(c.Request.Context(), userID, req.Content, req.MediaURLs, challengeID, domain.PostVisibility(req.Visibility))
	if err != nil {
		if errors.Is(err, service.ErrEmptyPost) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *SocialHandler) ListFeed(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	posts, err := h.socialService.ListFeed(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load feed")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *SocialHandler) ToggleLike(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, err := h.socialService.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to toggle like")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *SocialHandler) AddComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	post, err := h.socialService.AddComment(c.Request.Context(), userID, postID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyComment):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPostNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add comment")
		}
		return
	}
	c.JSON(http.StatusOK, post)
}

// Summary returns the aggregate social snapshot.
func (h *SocialHandler) Summary(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	summary, err := h.socialService.Summary(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load social summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
