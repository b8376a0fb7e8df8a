package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
)

func TestUserGetIsSelfOnly(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")
	ctx := context.Background()

	got, err := f.users.Get(ctx, a.UserID, a.UserID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)

	_, err = f.users.Get(ctx, a.UserID, b.UserID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.users.Get(ctx, "missing", b.UserID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserUpdateReplacesAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.users.Register(ctx, RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "secret123",
		Avatar: &Upload{Filename: "me.png", Data: pngBytes},
	})
	require.NoError(t, err)
	oldID := u.AvatarID
	require.True(t, f.images.Has(oldID))

	name := "Annie"
	got, err := f.users.Update(ctx, u.UserID, u.UserID, UpdateUserInput{
		Name:   &name,
		Avatar: &Upload{Filename: "new.png", Data: pngBytes},
	})
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)
	assert.NotEqual(t, oldID, got.AvatarID)
	assert.False(t, f.images.Has(oldID))
	assert.True(t, f.images.Has(got.AvatarID))
}

func TestUserUpdateRejectsTakenEmail(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")
	taken := "BOB@example.com"

	_, err := f.users.Update(context.Background(), a.UserID, a.UserID, UpdateUserInput{Email: &taken})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	stored, err := f.store.GetUser(context.Background(), a.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, b.Email, stored.Email)
}

func TestUserDeleteLeavesTasksInPlace(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	v := f.task(t, a, "Orphan")
	ctx := context.Background()

	require.NoError(t, f.users.Delete(ctx, a.UserID, a.UserID))

	_, err := f.store.GetUser(ctx, a.UserID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = f.store.GetTask(ctx, v.TaskID)
	assert.NoError(t, err)

	summaries, err := f.users.Summaries(ctx, []string{a.UserID})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestUserListIsSortedByName(t *testing.T) {
	f := newFixture(t)
	f.user(t, "zed")
	f.user(t, "amy")

	got, err := f.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "amy", got[0].Name)
}
