// Package repository implements the service store interfaces on Cloud
// Firestore and the image host on Firebase Storage.
package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskmanager/model"
)

const (
	usersCollection         = "Users"
	refreshTokensCollection = "refreshTokens"
	tasksCollection         = "Tasks"
	worksCollection         = "Works"
	notificationsCollection = "Notifications"
)

// Store is the Firestore-backed implementation of every store interface.
// Queries stick to single-field filters and order in Go, except the
// notification inbox, which is ordered and limited server-side.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// wrap turns Firestore's NotFound into model.ErrNotFound.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if isNotFound(err) {
		return fmt.Errorf("%s: %w", msg, model.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// getDoc reads one document into dst.
func (s *Store) getDoc(ctx context.Context, collection, id string, dst any) error {
	if id == "" {
		return fmt.Errorf("%s with empty id: %w", collection, model.ErrNotFound)
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return wrap(err, "get %s/%s", collection, id)
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// replaceDoc overwrites an existing document; a missing one is not created.
func (s *Store) replaceDoc(ctx context.Context, collection, id string, data any) error {
	ref := s.client.Collection(collection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, data)
	})
	return wrap(err, "save %s/%s", collection, id)
}

func (s *Store) deleteDoc(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return wrap(err, "delete %s/%s", collection, id)
}

// collect decodes every document of a query. T is a model value type.
func collect[T any](ctx context.Context, q firestore.Query) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()
	var out []T
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
		}
		out = append(out, v)
	}
	return out, nil
}
