package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, notif notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	notif.ID = uuid.New().String()
	repo.db.rows = append(repo.db.rows, &notif)
	return notif, nil
}

func (repo *notificationRepository) QueryUserNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var notifs []notification.Notification
	for _, notif := range repo.db.rows {
		if notif.UserID == userID {
			notifs = append(notifs, *notif)
		}
	}
	sort.SliceStable(notifs, func(i, j int) bool { return notifs[i].CreatedAt.After(notifs[j].CreatedAt) })
	return notifs, nil
}

func (repo *notificationRepository) GetNotificationByID(ctx context.Context, id string) (notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, notif := range repo.db.rows {
		if notif.ID == id {
			return *notif, nil
		}
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, id string, readAt time.Time) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, notif := range repo.db.rows {
		if notif.ID == id {
			if notif.ReadAt == nil {
				t := readAt.UTC()
				notif.ReadAt = &t
			}
			return *notif, nil
		}
	}
	return notification.Notification{}, notification.ErrNotFound
}
