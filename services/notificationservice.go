package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskmanager/model"
)

// NotificationPageSize caps how many notifications a listing returns.
const NotificationPageSize = 50

type NotificationService struct {
	store NotificationStore
	now   func() time.Time
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, now: time.Now}
}

// Draft builds an unsaved notification addressed to recipients. It returns
// nil when no non-empty recipient remains after de-duplication.
func (s *NotificationService) Draft(recipients []string, message string, typ model.NotificationType, link string) *model.Notification {
	users := model.NewIDSet(recipients...)
	if users.Len() == 0 {
		return nil
	}
	if !typ.Valid() {
		typ = model.NotificationTask
	}
	now := s.now()
	return &model.Notification{
		NotificationID: uuid.New().String(),
		Users:          users,
		Message:        message,
		Type:           typ,
		Link:           link,
		ReadBy:         model.IDSet{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Notify stores one notification addressed to all recipients. An empty
// recipient list stores nothing and returns (nil, nil). Calling it twice
// stores two notifications.
func (s *NotificationService) Notify(ctx context.Context, recipients []string, message string, typ model.NotificationType, link string) (*model.Notification, error) {
	n := s.Draft(recipients, message, typ, link)
	if n == nil {
		return nil, nil
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// MarkRead records that callerID has read the notification. Marking an
// already read notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id, callerID string) (*model.Notification, error) {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Notification not found")
	}
	if !n.AddressedTo(callerID) {
		return nil, model.Forbidden("Not authorized")
	}
	if n.ReadFor(callerID) {
		return n, nil
	}
	n, err = s.store.AddReader(ctx, id, callerID)
	if err != nil {
		return nil, fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return n, nil
}

// ListForUser returns the newest notifications addressed to callerID and
// the caller's unread count across all of their notifications.
func (s *NotificationService) ListForUser(ctx context.Context, callerID string) ([]model.Notification, int64, error) {
	items, err := s.store.ListNotificationsFor(ctx, callerID, NotificationPageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.store.CountUnreadFor(ctx, callerID)
	if err != nil {
		return nil, 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return items, unread, nil
}
