package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
)

func TestNotifyWithNoRecipientsStoresNothing(t *testing.T) {
	f := newFixture(t)

	n, err := f.notifier.Notify(context.Background(), nil, "hello", model.NotificationTask, "")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = f.notifier.Notify(context.Background(), []string{"", ""}, "hello", model.NotificationTask, "")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, _, count := f.store.Counts()
	assert.Zero(t, count)
}

func TestNotifyIsNotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.notifier.Notify(ctx, []string{"u1"}, "same", model.NotificationTask, "/x")
	require.NoError(t, err)
	_, err = f.notifier.Notify(ctx, []string{"u1"}, "same", model.NotificationTask, "/x")
	require.NoError(t, err)

	_, _, count := f.store.Counts()
	assert.Equal(t, 2, count)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n, err := f.notifier.Notify(ctx, []string{"u1", "u2"}, "m", model.NotificationWork, "")
	require.NoError(t, err)

	got, err := f.notifier.MarkRead(ctx, n.NotificationID, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.IDSet{"u1"}, got.ReadBy)

	got, err = f.notifier.MarkRead(ctx, n.NotificationID, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.IDSet{"u1"}, got.ReadBy)

	got, err = f.notifier.MarkRead(ctx, n.NotificationID, "u2")
	require.NoError(t, err)
	assert.Equal(t, model.IDSet{"u1", "u2"}, got.ReadBy)
}

func TestMarkReadByNonRecipientIsForbiddenAndChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n, err := f.notifier.Notify(ctx, []string{"u1"}, "m", model.NotificationTask, "")
	require.NoError(t, err)

	_, err = f.notifier.MarkRead(ctx, n.NotificationID, "intruder")
	assert.ErrorIs(t, err, model.ErrForbidden)

	stored, err := f.store.GetNotification(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Empty(t, stored.ReadBy)
}

func TestMarkReadMissingNotification(t *testing.T) {
	f := newFixture(t)

	_, err := f.notifier.MarkRead(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListForUserCapsPageButCountsAllUnread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	total := NotificationPageSize + 5
	var last *model.Notification
	for i := 0; i < total; i++ {
		n, err := f.notifier.Notify(ctx, []string{"u1"}, fmt.Sprintf("m%d", i), model.NotificationTask, "")
		require.NoError(t, err)
		last = n
	}
	_, err := f.notifier.Notify(ctx, []string{"someone-else"}, "not mine", model.NotificationTask, "")
	require.NoError(t, err)
	_, err = f.notifier.MarkRead(ctx, last.NotificationID, "u1")
	require.NoError(t, err)

	items, unread, err := f.notifier.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, NotificationPageSize)
	assert.Equal(t, last.NotificationID, items[0].NotificationID)
	assert.EqualValues(t, total-1, unread)
}
