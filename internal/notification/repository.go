package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/movienight/internal/database"
)

// Repository handles notification data persistence
type Repository struct {
	db database.DBTX
}

// NewRepository creates a new notification repository
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

const notificationColumns = `id, recipient_id, type, message, is_read, group_id, movie_id, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*Notification, error) {
	n := &Notification{}
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Type,
		&n.Message,
		&n.IsRead,
		&n.GroupID,
		&n.MovieID,
		&n.CreatedAt,
	)
	return n, err
}

// Insert stores the drafts
func (r *Repository) Insert(ctx context.Context, drafts ...Draft) error {
	query := `
		INSERT INTO notifications (recipient_id, type, message, group_id, movie_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, d := range drafts {
		if _, err := r.db.ExecContext(ctx, query, d.RecipientID, d.Type, d.Message, d.GroupID, d.MovieID); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a notification by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	notification, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return notification, nil
}

// ListByRecipientID retrieves a page of notifications for a user and the
// total matching count
func (r *Repository) ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	filter := `WHERE recipient_id = $1`
	if unreadOnly {
		filter += ` AND is_read = false`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications `+filter, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications ` + filter +
		` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkAsRead marks a notification as read
func (r *Repository) MarkAsRead(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks all notifications as read for a user
func (r *Repository) MarkAllAsRead(ctx context.Context, recipientID int64) error {
	query := `UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

// GetUnreadCount returns the count of unread notifications for a user
func (r *Repository) GetUnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`
	if err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
