package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubSocialService overrides only the calls a test exercises; anything else
// panics through the embedded nil interface.
type stubSocialService struct {
	service.SocialService
	sendFriendRequestFn func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.FriendRequest, error)
	createGroupFn       func(context.Context, primitive.ObjectID, domain.Role, service.CreateConversationInput) (*domain.Conversation, error)
}

func (s *stubSocialService) SendFriendRequest(ctx context.Context, requesterID, recipientID primitive.ObjectID) (*domain.FriendRequest, error) {
	return s.sendFriendRequestFn(ctx, requesterID, recipientID)
}

func (s *stubSocialService) CreateGroup(ctx context.Context, userID primitive.ObjectID, role domain.Role, input service.CreateConversationInput) (*domain.Conversation, error) {
	return s.createGroupFn(ctx, userID, role, input)
}

// newSocialTestContext builds a context carrying an authenticated caller.
func newSocialTestContext(t *testing.T, role domain.Role, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("request setup failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(ContextUserIDKey, primitive.NewObjectID().Hex())
	c.Set(ContextUserRoleKey, role)
	return c, w
}

func TestSendFriendRequestDuplicateIsBadRequest(t *testing.T) {
	handler := NewSocialHandler(&stubSocialService{
		sendFriendRequestFn: func(context.Context, primitive.ObjectID, primitive.ObjectID) (*domain.FriendRequest, error) {
			return nil, service.ErrFriendRequestExists
		},
	})
	body := fmt.Sprintf(`{"recipientId":%q}`, primitive.NewObjectID().Hex())
	c, w := newSocialTestContext(t, domain.RoleUser, body)

	handler.SendFriendRequest(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a duplicate request, got %d", w.Code)
	}
}

func TestCreateCommunityForbiddenForRegularUser(t *testing.T) {
	handler := NewSocialHandler(&stubSocialService{
		createGroupFn: func(_ context.Context, _ primitive.ObjectID, role domain.Role, input service.CreateConversationInput) (*domain.Conversation, error) {
			if role != domain.RoleUser {
				t.Fatalf("expected the caller's role to reach the service, got %s", role)
			}
			if input.Type != domain.ConversationCommunity {
				t.Fatalf("expected a community request, got %s", input.Type)
			}
			return nil, service.ErrCommunityAdminOnly
		},
	})
	c, w := newSocialTestContext(t, domain.RoleUser, `{"name":"Runners United","type":"community"}`)

	handler.CreateGroup(c)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin community create, got %d", w.Code)
	}
}

func TestCreateGroupForwardsMemberIDs(t *testing.T) {
	memberID := primitive.NewObjectID()
	created := &domain.Conversation{ID: primitive.NewObjectID(), Type: domain.ConversationGroup}
	handler := NewSocialHandler(&stubSocialService{
		createGroupFn: func(_ context.Context, _ primitive.ObjectID, _ domain.Role, input service.CreateConversationInput) (*domain.Conversation, error) {
			if len(input.MemberIDs) != 1 || input.MemberIDs[0] != memberID {
				t.Fatalf("expected member ids to be parsed, got %v", input.MemberIDs)
			}
			return created, nil
		},
	})
	body := fmt.Sprintf(`{"name":"Morning Crew","type":"group","memberIds":[%q]}`, memberID.Hex())
	c, w := newSocialTestContext(t, domain.RoleUser, body)

	handler.CreateGroup(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
}
