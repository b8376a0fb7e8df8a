package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
	"taskmanager/repository/memory"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("a", "r", time.Hour, time.Hour, memory.NewStore())

	raw, err := svc.CreateAccessToken("u1", model.RoleOwner)
	require.NoError(t, err)

	claims, err := svc.ParseAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestAccessTokenRejectsWrongSecretAndKind(t *testing.T) {
	svc := NewTokenService("a", "r", time.Hour, time.Hour, memory.NewStore())
	other := NewTokenService("other", "r", time.Hour, time.Hour, memory.NewStore())

	raw, err := other.CreateAccessToken("u1", model.RoleOwner)
	require.NoError(t, err)
	_, err = svc.ParseAccess(raw)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	refresh, err := svc.CreateRefreshToken("u1")
	require.NoError(t, err)
	_, err = svc.ParseAccess(refresh)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestAccessTokenExpires(t *testing.T) {
	svc := NewTokenService("a", "r", time.Minute, time.Hour, memory.NewStore())
	issued := time.Now()
	svc.now = func() time.Time { return issued }
	raw, err := svc.CreateAccessToken("u1", model.RoleOwner)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ParseAccess(raw)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestIssueStoresOnlyAHash(t *testing.T) {
	store := memory.NewStore()
	svc := NewTokenService("a", "r", time.Hour, time.Hour, store)

	pair, err := svc.Issue(context.Background(), &model.User{UserID: "u1", Role: model.RoleOwner})
	require.NoError(t, err)

	rec, err := store.GetRefreshToken(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rec.RefreshToken)
	assert.EqualValues(t, 3600, rec.ExpiresIn)
	assert.NoError(t, svc.CheckRefresh(context.Background(), "u1", pair.RefreshToken))
	assert.ErrorIs(t, svc.CheckRefresh(context.Background(), "u1", "forged"), model.ErrUnauthorized)

	require.NoError(t, svc.Revoke(context.Background(), "u1"))
	assert.ErrorIs(t, svc.CheckRefresh(context.Background(), "u1", pair.RefreshToken), model.ErrUnauthorized)
}

func TestRefreshTokensDifferUnderFrozenClock(t *testing.T) {
	svc := NewTokenService("a", "r", time.Hour, time.Hour, memory.NewStore())
	frozen := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	first, err := svc.CreateRefreshToken("u1")
	require.NoError(t, err)
	second, err := svc.CreateRefreshToken("u1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	a, err := svc.ParseRefresh(first)
	require.NoError(t, err)
	b, err := svc.ParseRefresh(second)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
