package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskmanager/model"
)

// ReminderWindow is how far ahead the start-date sweep looks.
const ReminderWindow = 24 * time.Hour

type ReminderService struct {
	tasks    TaskStore
	notifier *NotificationService
	now      func() time.Time
}

func NewReminderService(tasks TaskStore, notifier *NotificationService) *ReminderService {
	return &ReminderService{tasks: tasks, notifier: notifier, now: time.Now}
}

// SweepStartDates notifies the creator of every task starting within the
// next ReminderWindow whose reminder has not gone out yet. Each task is
// flagged in the same write as its notification, so a task is reminded at
// most once even when sweeps overlap. It returns how many tasks were
// reminded by this call.
func (s *ReminderService) SweepStartDates(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.tasks.TasksStartingBetween(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return 0, fmt.Errorf("find tasks starting soon: %w", err)
	}

	sent := 0
	for _, t := range due {
		if t.StartReminderSent || t.CreatedBy == "" {
			continue
		}
		n := s.notifier.Draft(
			[]string{t.CreatedBy},
			fmt.Sprintf("Reminder: your task %q starts within 24 hours.", t.Title),
			model.NotificationTask,
			taskLink(t.TaskID),
		)
		claimed, err := s.tasks.ClaimStartReminder(ctx, t.TaskID, n)
		if err != nil {
			return sent, fmt.Errorf("remind task %s: %w", t.TaskID, err)
		}
		if claimed {
			sent++
		}
	}
	slog.InfoContext(ctx, "start date sweep finished", "candidates", len(due), "reminded", sent)
	return sent, nil
}
