package services

import (
	"context"
	"time"

	"taskmanager/model"
)

// Stores return model.ErrNotFound (possibly wrapped) for missing documents.

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUsers returns the users that exist among ids, keyed by ID.
	GetUsers(ctx context.Context, ids []string) (map[string]model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SaveUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

type RefreshTokenStore interface {
	SaveRefreshToken(ctx context.Context, rec model.RefreshRecord) error
	GetRefreshToken(ctx context.Context, userID string) (*model.RefreshRecord, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	// ListTasksFor returns tasks created by or assigned to userID, narrowed
	// to status when it is non-empty.
	ListTasksFor(ctx context.Context, userID string, status model.TaskStatus) ([]model.Task, error)
	SaveTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, id string) error
	// TasksStartingBetween returns tasks whose start date is in [from, to]
	// and whose start reminder has not been sent.
	TasksStartingBetween(ctx context.Context, from, to time.Time) ([]model.Task, error)
	// ClaimStartReminder atomically flags the task's reminder as sent and
	// stores n. It reports false, storing nothing, when the flag was
	// already set.
	ClaimStartReminder(ctx context.Context, taskID string, n *model.Notification) (bool, error)
}

type WorkStore interface {
	CreateWork(ctx context.Context, w *model.Work) error
	GetWork(ctx context.Context, id string) (*model.Work, error)
	ListWorksByTask(ctx context.Context, taskID string) ([]model.Work, error)
	CountWorksByTask(ctx context.Context, taskID string) (int64, error)
	SaveWork(ctx context.Context, w *model.Work) error
	DeleteWork(ctx context.Context, id string) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id string) (*model.Notification, error)
	// ListNotificationsFor returns notifications addressed to userID, newest
	// first, at most limit of them.
	ListNotificationsFor(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	CountUnreadFor(ctx context.Context, userID string) (int64, error)
	// AddReader adds userID to the notification's read-by set and returns
	// the stored notification.
	AddReader(ctx context.Context, id, userID string) (*model.Notification, error)
}

// ImageHost is the external object store for work images and avatars.
type ImageHost interface {
	Upload(ctx context.Context, data []byte, contentType string) (model.WorkImage, error)
	Delete(ctx context.Context, publicID string) error
}
