package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"taskmanager/model"
)

func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	_, err := s.client.Collection(notificationsCollection).Doc(n.NotificationID).Create(ctx, n)
	return wrap(err, "create notification %s", n.NotificationID)
}

func (s *Store) GetNotification(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	if err := s.getDoc(ctx, notificationsCollection, id, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) addressedTo(userID string) firestore.Query {
	return s.client.Collection(notificationsCollection).Where("users", "array-contains", userID)
}

// ListNotificationsFor reads only the newest page. The ordered
// array-contains query needs the composite index declared in
// firestore.indexes.json.
func (s *Store) ListNotificationsFor(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	q := s.addressedTo(userID).OrderBy("createdat", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	items, err := collect[model.Notification](ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list notifications of %s: %w", userID, err)
	}
	return items, nil
}

// CountUnreadFor reads only the readby field of each addressed notification;
// Firestore cannot filter on array absence.
func (s *Store) CountUnreadFor(ctx context.Context, userID string) (int64, error) {
	iter := s.addressedTo(userID).Select("readby").Documents(ctx)
	defer iter.Stop()
	var count int64
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("count unread of %s: %w", userID, err)
		}
		var doc struct {
			ReadBy model.IDSet `firestore:"readby"`
		}
		if err := snap.DataTo(&doc); err != nil {
			return 0, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
		}
		if !doc.ReadBy.Contains(userID) {
			count++
		}
	}
	return count, nil
}

// AddReader appends with ArrayUnion so concurrent readers never drop each
// other.
func (s *Store) AddReader(ctx context.Context, id, userID string) (*model.Notification, error) {
	ref := s.client.Collection(notificationsCollection).Doc(id)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "readby", Value: firestore.ArrayUnion(userID)},
		{Path: "updatedat", Value: time.Now()},
	})
	if err != nil {
		return nil, wrap(err, "mark notification %s read", id)
	}
	return s.GetNotification(ctx, id)
}
