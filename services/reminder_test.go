package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
)

func TestSweepStartDatesRemindsCreatorOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	f.reminders.now = func() time.Time { return now }

	soon := now.Add(3 * time.Hour)
	later := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	due, err := f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "Kickoff", StartDate: &soon, AssignedUsers: []string{b.UserID}})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "Next week", StartDate: &later})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "Started", StartDate: &past})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "Undated"})
	require.NoError(t, err)

	sent, err := f.reminders.SweepStartDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	inbox := f.inbox(t, a)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "Kickoff")
	assert.Equal(t, model.IDSet{a.UserID}, inbox[0].Users)
	assert.Equal(t, "/tasks/"+due.TaskID, inbox[0].Link)

	stored, err := f.store.GetTask(ctx, due.TaskID)
	require.NoError(t, err)
	assert.True(t, stored.StartReminderSent)

	sent, err = f.reminders.SweepStartDates(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, f.inbox(t, a), 1)
}

func TestRescheduledTaskIsRemindedAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "alice")
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	f.reminders.now = func() time.Time { return now }

	start := now.Add(time.Hour)
	v, err := f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "Moved", StartDate: &start})
	require.NoError(t, err)
	sent, err := f.reminders.SweepStartDates(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	moved := now.Add(2 * time.Hour)
	_, err = f.tasks.Update(ctx, v.TaskID, a.UserID, UpdateTaskInput{StartDate: &moved})
	require.NoError(t, err)

	sent, err = f.reminders.SweepStartDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestEditWithSameStartDateDoesNotRemindAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "alice")
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	f.reminders.now = func() time.Time { return now }

	start := now.Add(time.Hour)
	v, err := f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "Standup", StartDate: &start})
	require.NoError(t, err)
	sent, err := f.reminders.SweepStartDates(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	same := start.In(time.FixedZone("ICT", 7*3600))
	title := "Daily standup"
	_, err = f.tasks.Update(ctx, v.TaskID, a.UserID, UpdateTaskInput{Title: &title, StartDate: &same})
	require.NoError(t, err)

	sent, err = f.reminders.SweepStartDates(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, f.inbox(t, a), 1)
}
