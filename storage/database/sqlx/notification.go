package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/notification"
)

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	ReadAt    null.Time `db:"read_at"`
}

func (r notificationRow) unpack() notification.Notification {
	notif := notification.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
	}
	if r.ReadAt.Valid {
		t := r.ReadAt.Time
		notif.ReadAt = &t
	}
	return notif
}

type notificationRepository struct {
	exec core.DBExecutor
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{exec: exec}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, notif notification.Notification) (notification.Notification, error) {
	notif.ID = uuid.New().String()
	const q = `
		INSERT INTO notification (id, user_id, title, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.exec.ExecContext(ctx, q,
		notif.ID, notif.UserID, notif.Title, notif.Body, notif.CreatedAt.UTC())
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return notif, nil
}

func (repo notificationRepository) QueryUserNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	var rows []notificationRow
	const q = `SELECT * FROM notification WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.exec.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	notifs := make([]notification.Notification, 0, len(rows))
	for _, r := range rows {
		notifs = append(notifs, r.unpack())
	}
	return notifs, nil
}

func (repo notificationRepository) GetNotificationByID(ctx context.Context, id string) (notification.Notification, error) {
	var r notificationRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM notification WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "getting notification")
	}
	return r.unpack(), nil
}

func (repo notificationRepository) MarkNotificationRead(ctx context.Context, id string, readAt time.Time) (notification.Notification, error) {
	const q = `UPDATE notification SET read_at = $2 WHERE id = $1 AND read_at IS NULL`
	if _, err := repo.exec.ExecContext(ctx, q, id, readAt.UTC()); err != nil {
		return notification.Notification{}, errors.Wrap(err, "marking notification read")
	}
	return repo.GetNotificationByID(ctx, id)
}
