package store

import (
	"context"
	"database/sql"

	"mobilestore/internal/models"
)

// CreateNotification persists a notification record.
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, is_read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		n.ID, n.UserID, n.Title, n.Message, n.IsRead,
	).Scan(&n.CreatedAt)
}

// ListNotifications retrieves notifications newest first, optionally
// filtered to one user.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if userID == "" {
		err := s.db.SelectContext(ctx, &notifications,
			"SELECT * FROM notifications ORDER BY created_at DESC")
		return notifications, err
	}
	err := s.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return notifications, err
}

// MarkNotificationRead flips the is_read flag under the admin-or-owner rule,
// reporting false when the notification is absent or owned by someone else.
func (s *Store) MarkNotificationRead(ctx context.Context, id, callerID string, admin bool) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if admin {
		res, err = s.db.ExecContext(ctx,
			"UPDATE notifications SET is_read = TRUE WHERE id = $1", id)
	} else {
		res, err = s.db.ExecContext(ctx,
			"UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, callerID)
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
