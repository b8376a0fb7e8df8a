package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"taskmanager/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.client.Collection(usersCollection).Doc(u.UserID).Create(ctx, u)
	return wrap(err, "create user %s", u.UserID)
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.getDoc(ctx, usersCollection, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	docs, err := s.client.Collection(usersCollection).Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("user with email %q: %w", email, model.ErrNotFound)
	}
	var u model.User
	if err := docs[0].DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context, ids []string) (map[string]model.User, error) {
	out := make(map[string]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			refs = append(refs, s.client.Collection(usersCollection).Doc(id))
		}
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var u model.User
		if err := snap.DataTo(&u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
		}
		out[snap.Ref.ID] = u
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := collect[model.User](ctx, s.client.Collection(usersCollection).Query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) SaveUser(ctx context.Context, u *model.User) error {
	return s.replaceDoc(ctx, usersCollection, u.UserID, u)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, usersCollection, id)
}

func (s *Store) SaveRefreshToken(ctx context.Context, rec model.RefreshRecord) error {
	_, err := s.client.Collection(refreshTokensCollection).Doc(rec.UserID).Set(ctx, rec)
	return wrap(err, "store refresh token of %s", rec.UserID)
}

func (s *Store) GetRefreshToken(ctx context.Context, userID string) (*model.RefreshRecord, error) {
	var rec model.RefreshRecord
	if err := s.getDoc(ctx, refreshTokensCollection, userID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) RevokeRefreshToken(ctx context.Context, userID string) error {
	_, err := s.client.Collection(refreshTokensCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "revoked", Value: true},
	})
	return wrap(err, "revoke refresh token of %s", userID)
}
