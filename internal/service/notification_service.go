package service

import (
	"context"
	"errors"
	"log"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotificationNotFound = errors.New("notification not found")

// defaultNotificationLimit caps feed reads.
const defaultNotificationLimit = 50

type NotificationService interface {
	// Notify appends a notification for userID. Failures are logged, not
	// propagated; notifications never fail the action that caused them.
	Notify(ctx context.Context, userID primitive.ObjectID, kind domain.NotificationType, title, message string, payload map[string]any)
	List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) Notify(ctx context.Context, userID primitive.ObjectID, kind domain.NotificationType, title, message string, payload map[string]any) {
	n := &domain.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Payload: payload,
	}
	if _, err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("WARN: failed to create %s notification for user %s: %v", kind, userID.Hex(), err)
	}
}

func (s *notificationService) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}
	return s.notificationRepo.List(ctx, userID, unreadOnly, limit)
}

// MarkRead is idempotent; marking a read notification again succeeds.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
