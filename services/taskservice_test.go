package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
)

func TestCreateTaskNotifiesAssignees(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")

	v := f.task(t, a, "Design", b)

	assert.Equal(t, model.TaskPending, v.Status)
	assert.Equal(t, a.UserID, v.CreatedBy)

	inbox := f.inbox(t, b)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "Design")
	assert.Equal(t, model.NotificationTask, inbox[0].Type)
	assert.Equal(t, "/tasks/"+v.TaskID, inbox[0].Link)
	assert.Empty(t, inbox[0].ReadBy)
	assert.Empty(t, f.inbox(t, a))
}

func TestCreateTaskWithoutAssigneesCreatesNoNotification(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")

	f.task(t, a, "Solo")

	_, _, notifications := f.store.Counts()
	assert.Zero(t, notifications)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	ctx := context.Background()

	_, err := f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "  "})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "x", Status: "blocked"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.tasks.Create(ctx, a.UserID, CreateTaskInput{Title: "x", AssignedUsers: []string{"ghost"}})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "assignedUsers", verr.Field)
}

func TestGetTaskCountsWorks(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	v := f.task(t, a, "Report")
	for _, title := range []string{"w1", "w2", "w3"} {
		f.work(t, a, v.TaskID, title)
	}

	got, err := f.tasks.Get(context.Background(), v.TaskID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.WorkCount)

	_, err = f.tasks.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListTasksForCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	first := f.task(t, a, "Design homepage", b)
	second := f.task(t, b, "Write copy")
	f.task(t, c, "Unrelated")
	done := model.TaskDone
	_, err := f.tasks.Update(ctx, second.TaskID, b.UserID, UpdateTaskInput{Status: &done})
	require.NoError(t, err)

	t.Run("creator or assignee, newest first", func(t *testing.T) {
		got, err := f.tasks.ListForCaller(ctx, b.UserID, TaskFilter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.TaskID, got[0].TaskID)
		assert.Equal(t, first.TaskID, got[1].TaskID)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		got, err := f.tasks.ListForCaller(ctx, b.UserID, TaskFilter{Search: "DESIGN"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first.TaskID, got[0].TaskID)
	})

	t.Run("status is exact", func(t *testing.T) {
		got, err := f.tasks.ListForCaller(ctx, b.UserID, TaskFilter{Status: model.TaskDone})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, second.TaskID, got[0].TaskID)
	})

	t.Run("uninvolved caller sees nothing", func(t *testing.T) {
		d := f.user(t, "dave")
		got, err := f.tasks.ListForCaller(ctx, d.UserID, TaskFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := f.tasks.ListForCaller(ctx, b.UserID, TaskFilter{Status: "blocked"})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestListTasksAnnotatesWorkCount(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	v := f.task(t, a, "Counted")
	f.work(t, a, v.TaskID, "one")
	f.work(t, a, v.TaskID, "two")

	got, err := f.tasks.ListForCaller(context.Background(), a.UserID, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, got[0].WorkCount)
}

func TestUpdateTaskNotifiesOnlyNewAssignees(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	v := f.task(t, a, "Plan", b)

	ids := []string{b.UserID, c.UserID}
	got, err := f.tasks.Update(context.Background(), v.TaskID, a.UserID, UpdateTaskInput{AssignedUsers: &ids})
	require.NoError(t, err)
	assert.Equal(t, model.IDSet{b.UserID, c.UserID}, got.AssignedUsers)

	assert.Len(t, f.inbox(t, b), 1)
	assert.Len(t, f.inbox(t, c), 1)
}

func TestUpdateTaskGate(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")
	v := f.task(t, a, "Mine", b)
	title := "Hijacked"

	_, err := f.tasks.Update(context.Background(), v.TaskID, b.UserID, UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.tasks.Update(context.Background(), "missing", b.UserID, UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, model.ErrNotFound)

	stored, err := f.store.GetTask(context.Background(), v.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", stored.Title)
}

func TestDeleteTaskByNonCreatorIsForbiddenAndChangesNothing(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")
	v := f.task(t, a, "Keep", b)
	w := f.work(t, b, v.TaskID, "evidence", pngUpload("a.png"))

	err := f.tasks.Delete(context.Background(), v.TaskID, b.UserID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.store.GetTask(context.Background(), v.TaskID)
	assert.NoError(t, err)
	_, err = f.store.GetWork(context.Background(), w.WorkID)
	assert.NoError(t, err)
	assert.True(t, f.images.Has(w.Images[0].PublicID))
}

func TestDeleteTaskCascades(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	v := f.task(t, a, "Doomed")
	w1 := f.work(t, a, v.TaskID, "one", pngUpload("1.png"), pngUpload("2.png"))
	w2 := f.work(t, a, v.TaskID, "two", pngUpload("3.png"))

	require.NoError(t, f.tasks.Delete(context.Background(), v.TaskID, a.UserID))

	tasks, works, _ := f.store.Counts()
	assert.Zero(t, tasks)
	assert.Zero(t, works)
	assert.Zero(t, f.images.Len())
	assert.ElementsMatch(t, []string{
		w1.Images[0].PublicID, w1.Images[1].PublicID, w2.Images[0].PublicID,
	}, f.images.Deleted())
}

func TestDeleteTaskAbortsOnImageHostFailure(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")
	v := f.task(t, a, "Fragile")
	w := f.work(t, a, v.TaskID, "only", pngUpload("1.png"), pngUpload("2.png"))
	f.images.FailDelete(w.Images[1].PublicID)

	err := f.tasks.Delete(context.Background(), v.TaskID, a.UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrExternal)
	var ext *model.ExternalError
	assert.True(t, errors.As(err, &ext))

	// No rollback: the first image is gone, the work and task remain.
	assert.False(t, f.images.Has(w.Images[0].PublicID))
	_, err = f.store.GetWork(context.Background(), w.WorkID)
	assert.NoError(t, err)
	_, err = f.store.GetTask(context.Background(), v.TaskID)
	assert.NoError(t, err)
}
