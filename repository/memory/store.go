// Package memory holds process-local implementations of the store and image
// host interfaces. They back tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskmanager/model"
)

// Store keeps every collection in maps guarded by one mutex. Values are
// copied on the way in and out so callers never share memory with it.
type Store struct {
	mu            sync.RWMutex
	users         map[string]model.User
	refreshTokens map[string]model.RefreshRecord
	tasks         map[string]model.Task
	works         map[string]model.Work
	notifications map[string]model.Notification
}

func NewStore() *Store {
	return &Store{
		users:         map[string]model.User{},
		refreshTokens: map[string]model.RefreshRecord{},
		tasks:         map[string]model.Task{},
		works:         map[string]model.Work{},
		notifications: map[string]model.Notification{},
	}
}

func copyTask(t model.Task) model.Task {
	t.AssignedUsers = t.AssignedUsers.Slice()
	return t
}

func copyWork(w model.Work) model.Work {
	w.Images = append([]model.WorkImage{}, w.Images...)
	return w
}

func copyNotification(n model.Notification) model.Notification {
	n.Users = n.Users.Slice()
	n.ReadBy = n.ReadBy.Slice()
	return n
}

// Users

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *Store) GetUsers(_ context.Context, ids []string) (map[string]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SaveUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.UserID]; !ok {
		return model.ErrNotFound
	}
	s.users[u.UserID] = *u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// Refresh tokens

func (s *Store) SaveRefreshToken(_ context.Context, rec model.RefreshRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[rec.UserID] = rec
	return nil
}

func (s *Store) GetRefreshToken(_ context.Context, userID string) (*model.RefreshRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.refreshTokens[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &rec, nil
}

func (s *Store) RevokeRefreshToken(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.refreshTokens[userID]
	if !ok {
		return model.ErrNotFound
	}
	rec.Revoked = true
	s.refreshTokens[userID] = rec
	return nil
}

// Tasks

func (s *Store) CreateTask(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.TaskID] = copyTask(*t)
	return nil
}

func (s *Store) GetTask(_ context.Context, id string) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	t = copyTask(t)
	return &t, nil
}

func (s *Store) ListTasksFor(_ context.Context, userID string, status model.TaskStatus) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Task
	for _, t := range s.tasks {
		if !t.Involves(userID) {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, copyTask(t))
	}
	return out, nil
}

func (s *Store) SaveTask(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.TaskID]; !ok {
		return model.ErrNotFound
	}
	s.tasks[t.TaskID] = copyTask(*t)
	return nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

func (s *Store) TasksStartingBetween(_ context.Context, from, to time.Time) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Task
	for _, t := range s.tasks {
		if t.StartReminderSent || t.StartDate == nil {
			continue
		}
		if t.StartDate.Before(from) || t.StartDate.After(to) {
			continue
		}
		out = append(out, copyTask(t))
	}
	return out, nil
}

func (s *Store) ClaimStartReminder(_ context.Context, taskID string, n *model.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok || t.StartReminderSent {
		return false, nil
	}
	t.StartReminderSent = true
	s.tasks[taskID] = t
	if n != nil {
		s.notifications[n.NotificationID] = copyNotification(*n)
	}
	return true, nil
}

// Works

func (s *Store) CreateWork(_ context.Context, w *model.Work) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.works[w.WorkID] = copyWork(*w)
	return nil
}

func (s *Store) GetWork(_ context.Context, id string) (*model.Work, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.works[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	w = copyWork(w)
	return &w, nil
}

func (s *Store) ListWorksByTask(_ context.Context, taskID string) ([]model.Work, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Work
	for _, w := range s.works {
		if w.TaskID == taskID {
			out = append(out, copyWork(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountWorksByTask(_ context.Context, taskID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, w := range s.works {
		if w.TaskID == taskID {
			n++
		}
	}
	return n, nil
}

func (s *Store) SaveWork(_ context.Context, w *model.Work) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.works[w.WorkID]; !ok {
		return model.ErrNotFound
	}
	s.works[w.WorkID] = copyWork(*w)
	return nil
}

func (s *Store) DeleteWork(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.works, id)
	return nil
}

// Notifications

func (s *Store) CreateNotification(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.NotificationID] = copyNotification(*n)
	return nil
}

func (s *Store) GetNotification(_ context.Context, id string) (*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	n = copyNotification(n)
	return &n, nil
}

func (s *Store) ListNotificationsFor(_ context.Context, userID string, limit int) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Notification
	for _, n := range s.notifications {
		if n.AddressedTo(userID) {
			out = append(out, copyNotification(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountUnreadFor(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, n := range s.notifications {
		if n.AddressedTo(userID) && !n.ReadFor(userID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) AddReader(_ context.Context, id, userID string) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	n.ReadBy = n.ReadBy.Add(userID)
	n.UpdatedAt = time.Now()
	s.notifications[id] = n
	n = copyNotification(n)
	return &n, nil
}

// Counts reports collection sizes, for tests.
func (s *Store) Counts() (tasks, works, notifications int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), len(s.works), len(s.notifications)
}
