package postgres

import (
	"context"

	"lawdesk-backend/internal/database"
	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/repository"
)

type notificationRepository struct {
	db database.Handler
}

func NewNotificationRepository(db database.Handler) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, title, message, attributes)
	          VALUES ($1, $2, $3, $4) RETURNING id, is_read, created_at`
	err := r.db.QueryRowxContext(ctx, query, n.UserID, n.Title, n.Message, n.Attributes).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	return mapError(err)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var total int32
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID); err != nil {
		return nil, 0, mapError(err)
	}

	notes := []domain.Notification{}
	query := `SELECT id, user_id, title, message, is_read, attributes, created_at
	          FROM notifications WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &notes, query, userID, limit, offset); err != nil {
		return nil, 0, mapError(err)
	}
	return notes, total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return mapError(err)
	}
	return affectedOr(res, repository.ErrNotFound)
}
