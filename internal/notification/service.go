package notification

import (
	"context"

	"github.com/fkhayef/movienight/pkg/apperror"
)

// Common errors
var (
	ErrNotificationNotFound = apperror.NotFound("notification not found")
	ErrNotRecipient         = apperror.Forbidden("not the recipient of this notification")
)

// Store is the persistence the notification service needs
type Store interface {
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, recipientID int64) error
	GetUnreadCount(ctx context.Context, recipientID int64) (int, error)
}

// Service handles notification business logic
type Service struct {
	repo Store
}

// NewService creates a new notification service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// ListByRecipientID retrieves a page of the caller's notifications
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	if notification.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}
