package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"taskmanager/model"
)

func (s *Store) CreateTask(ctx context.Context, t *model.Task) error {
	_, err := s.client.Collection(tasksCollection).Doc(t.TaskID).Create(ctx, t)
	return wrap(err, "create task %s", t.TaskID)
}

func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	if err := s.getDoc(ctx, tasksCollection, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasksFor runs one OR query over creator and assignee.
func (s *Store) ListTasksFor(ctx context.Context, userID string, taskStatus model.TaskStatus) ([]model.Task, error) {
	q := s.client.Collection(tasksCollection).WhereEntity(firestore.OrFilter{
		Filters: []firestore.EntityFilter{
			firestore.PropertyFilter{Path: "createdby", Operator: "==", Value: userID},
			firestore.PropertyFilter{Path: "assignedusers", Operator: "array-contains", Value: userID},
		},
	})
	tasks, err := collect[model.Task](ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", userID, err)
	}
	if taskStatus == "" {
		return tasks, nil
	}
	out := tasks[:0]
	for _, t := range tasks {
		if t.Status == taskStatus {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) SaveTask(ctx context.Context, t *model.Task) error {
	return s.replaceDoc(ctx, tasksCollection, t.TaskID, t)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tasksCollection, id)
}

// TasksStartingBetween filters on the start date range only; the sent flag
// is checked here so the query needs no composite index.
func (s *Store) TasksStartingBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	q := s.client.Collection(tasksCollection).
		Where("startdate", ">=", from).
		Where("startdate", "<=", to)
	tasks, err := collect[model.Task](ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find tasks starting soon: %w", err)
	}
	out := tasks[:0]
	for _, t := range tasks {
		if !t.StartReminderSent {
			out = append(out, t)
		}
	}
	return out, nil
}

// ClaimStartReminder flips the flag and writes the notification in one
// transaction. A task that is gone or already flagged is left alone.
func (s *Store) ClaimStartReminder(ctx context.Context, taskID string, n *model.Notification) (bool, error) {
	taskRef := s.client.Collection(tasksCollection).Doc(taskID)
	claimed := false
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		snap, err := tx.Get(taskRef)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		var t model.Task
		if err := snap.DataTo(&t); err != nil {
			return err
		}
		if t.StartReminderSent {
			return nil
		}
		if err := tx.Update(taskRef, []firestore.Update{
			{Path: "startremindersent", Value: true},
		}); err != nil {
			return err
		}
		if n != nil {
			if err := tx.Create(s.client.Collection(notificationsCollection).Doc(n.NotificationID), n); err != nil {
				return err
			}
		}
		claimed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("claim start reminder of %s: %w", taskID, err)
	}
	return claimed, nil
}
