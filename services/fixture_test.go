package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskmanager/model"
	"taskmanager/repository/memory"
)

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func pngUpload(name string) Upload {
	return Upload{Filename: name, Data: pngBytes}
}

type fixture struct {
	store  *memory.Store
	images *memory.ImageHost

	notifier  *NotificationService
	tokens    *TokenService
	users     *UserService
	tasks     *TaskService
	works     *WorkService
	reminders *ReminderService

	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  memory.NewStore(),
		images: memory.NewImageHost(),
		clock:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	now := func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}

	f.notifier = NewNotificationService(f.store)
	f.notifier.now = now
	f.tokens = NewTokenService("access-secret", "refresh-secret", time.Hour, 24*time.Hour, f.store)
	f.users = NewUserService(f.store, f.images, f.tokens)
	f.users.now = now
	f.tasks = NewTaskService(f.store, f.store, f.store, f.images, f.notifier)
	f.tasks.now = now
	f.works = NewWorkService(f.store, f.store, f.images, f.notifier)
	f.works.now = now
	f.reminders = NewReminderService(f.store, f.notifier)
	return f
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) task(t *testing.T, creator *model.User, title string, assignees ...*model.User) *TaskView {
	t.Helper()
	var ids []string
	for _, a := range assignees {
		ids = append(ids, a.UserID)
	}
	v, err := f.tasks.Create(context.Background(), creator.UserID, CreateTaskInput{Title: title, AssignedUsers: ids})
	require.NoError(t, err)
	return v
}

func (f *fixture) work(t *testing.T, author *model.User, taskID, title string, images ...Upload) *model.Work {
	t.Helper()
	w, err := f.works.Create(context.Background(), taskID, author.UserID, CreateWorkInput{Title: title, Images: images})
	require.NoError(t, err)
	return w
}

func (f *fixture) inbox(t *testing.T, u *model.User) []model.Notification {
	t.Helper()
	items, _, err := f.notifier.ListForUser(context.Background(), u.UserID)
	require.NoError(t, err)
	return items
}
