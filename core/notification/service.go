package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"` // UTC
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

func (n Notification) IsRead() bool { return n.ReadAt != nil }

type (
	Repository interface {
		CreateNotification(ctx context.Context, notif Notification) (Notification, error)
		// QueryUserNotifications returns a user's notifications newest first.
		QueryUserNotifications(ctx context.Context, userID string) ([]Notification, error)
		GetNotificationByID(ctx context.Context, id string) (Notification, error)
		MarkNotificationRead(ctx context.Context, id string, readAt time.Time) (Notification, error)
	}

	// UserDirectory resolves the recipients of class-wide notifications;
	// satisfied by user.Repository.
	UserDirectory interface {
		QueryUserIDsByClass(ctx context.Context, classID string) ([]string, error)
	}

	Service struct {
		repo  Repository
		users UserDirectory
	}
)

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

func (svc *Service) Notify(ctx context.Context, userID, title, body string) (Notification, error) {
	notif := Notification{
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateNotification(ctx, notif)
}

// NotifyClass fans a notification out to every user of a class.
func (svc *Service) NotifyClass(ctx context.Context, classID, title, body string) error {
	ids, err := svc.users.QueryUserIDsByClass(ctx, classID)
	if err != nil {
		return errors.Wrap(err, "querying class users")
	}
	for _, id := range ids {
		if _, err := svc.Notify(ctx, id, title, body); err != nil {
			return errors.Wrap(err, "creating notification")
		}
	}
	return nil
}

func (svc *Service) QueryForUser(ctx context.Context, userID string) ([]Notification, error) {
	notifs, err := svc.repo.QueryUserNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	if notifs == nil {
		notifs = []Notification{}
	}
	return notifs, nil
}

// MarkRead marks a notification read and returns the stored record; the read
// state is server-confirmed, never assumed. Marking twice is a no-op. A
// notification belonging to another user is reported as not found.
func (svc *Service) MarkRead(ctx context.Context, id, userID string) (Notification, error) {
	notif, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if notif.UserID != userID {
		return Notification{}, ErrNotFound
	}
	if notif.IsRead() {
		return notif, nil
	}
	return svc.repo.MarkNotificationRead(ctx, id, time.Now().UTC())
}
