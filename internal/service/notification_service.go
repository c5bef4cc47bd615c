package service

import (
	"context"

	"mobilestore/internal/apperr"
	"mobilestore/internal/models"

	"github.com/google/uuid"
)

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, callerID string, admin bool) (bool, error)
}

// NotificationService exposes the notification inbox.
type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// Record persists a notification for one user.
func (s *NotificationService) Record(ctx context.Context, userID, title, message string) (*models.Notification, error) {
	if userID == "" || title == "" {
		return nil, apperr.Validation("The input is required")
	}
	n := &models.Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, apperr.Internal("Something went wrong in Record", err)
	}
	return n, nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" || !isValidID(userID) {
		return nil, apperr.Validation("Invalid ID format!")
	}
	notifications, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in ListForUser", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. Scoped like every other mutation:
// a non-admin caller may only touch their own notifications, and a denied
// notification is indistinguishable from a missing one.
func (s *NotificationService) MarkRead(ctx context.Context, id, callerID string, admin bool) error {
	if id == "" || !isValidID(id) || callerID == "" || !isValidID(callerID) {
		return apperr.Validation("Invalid ID format!")
	}
	ok, err := s.store.MarkNotificationRead(ctx, id, callerID, admin)
	if err != nil {
		return apperr.Internal("Something went wrong in MarkRead", err)
	}
	if !ok {
		return apperr.NotFound("Notification not found or access denied!")
	}
	return nil
}
