package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskmanager/model"
)

type CreateWorkInput struct {
	Title       string
	Description string
	TimeRange   string
	ShareURL    string
	Images      []Upload
}

type UpdateWorkInput struct {
	Title       *string
	Description *string
	TimeRange   *string
	ShareURL    *string
	// RemoveImages lists publicIds to drop. IDs the work does not hold are
	// ignored and never sent to the image host.
	RemoveImages []string
	AddImages    []Upload
}

type WorkService struct {
	works    WorkStore
	tasks    TaskStore
	images   ImageHost
	notifier *NotificationService
	gate     Gate[*model.Work]
	now      func() time.Time
}

func NewWorkService(works WorkStore, tasks TaskStore, images ImageHost, notifier *NotificationService) *WorkService {
	return &WorkService{
		works:    works,
		tasks:    tasks,
		images:   images,
		notifier: notifier,
		gate:     workGate(works),
		now:      time.Now,
	}
}

func (s *WorkService) Create(ctx context.Context, taskID, callerID string, in CreateWorkInput) (*model.Work, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &model.ValidationError{Field: "title", Message: "Title is required"}
	}
	if err := checkUploads(in.Images); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, notFoundAs(err, "Task not found")
	}

	images, err := uploadAll(ctx, s.images, in.Images)
	if err != nil {
		return nil, err
	}

	now := s.now()
	work := &model.Work{
		WorkID:      uuid.New().String(),
		TaskID:      task.TaskID,
		Title:       title,
		Description: in.Description,
		TimeRange:   in.TimeRange,
		ShareURL:    in.ShareURL,
		Images:      images,
		CreatedBy:   callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.works.CreateWork(ctx, work); err != nil {
		return nil, fmt.Errorf("create work: %w", err)
	}

	s.notifyTask(ctx, task, fmt.Sprintf("New work %q was added to task %q", work.Title, task.Title))
	return work, nil
}

// ListByTask returns the works of an existing task, oldest first.
func (s *WorkService) ListByTask(ctx context.Context, taskID string) ([]model.Work, error) {
	if _, err := s.tasks.GetTask(ctx, taskID); err != nil {
		return nil, notFoundAs(err, "Task not found")
	}
	works, err := s.works.ListWorksByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list works of task %s: %w", taskID, err)
	}
	return works, nil
}

func (s *WorkService) Get(ctx context.Context, id string) (*model.Work, error) {
	w, err := s.works.GetWork(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Work not found")
	}
	return w, nil
}

// Update applies field changes, then removes images, then appends new
// uploads in input order, and finally persists the work. Image host calls
// are not undone if a later step fails: an image removed from the host
// before a failed save is still referenced by the stored work.
func (s *WorkService) Update(ctx context.Context, id, callerID string, in UpdateWorkInput) (*model.Work, error) {
	work, err := s.gate.Authorize(ctx, id, callerID, ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := checkUploads(in.AddImages); err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, &model.ValidationError{Field: "title", Message: "Title cannot be empty"}
		}
		work.Title = title
	}
	if in.Description != nil {
		work.Description = *in.Description
	}
	if in.TimeRange != nil {
		work.TimeRange = *in.TimeRange
	}
	if in.ShareURL != nil {
		work.ShareURL = *in.ShareURL
	}

	if len(in.RemoveImages) > 0 {
		remove := model.NewIDSet(in.RemoveImages...)
		var doomed []model.WorkImage
		for _, img := range work.Images {
			if remove.Contains(img.PublicID) {
				doomed = append(doomed, img)
			}
		}
		if err := destroyAll(ctx, s.images, doomed); err != nil {
			return nil, err
		}
		work.RemoveImages(remove.Slice())
	}

	added, err := uploadAll(ctx, s.images, in.AddImages)
	if err != nil {
		return nil, err
	}
	work.Images = append(work.Images, added...)
	work.UpdatedAt = s.now()

	if err := s.works.SaveWork(ctx, work); err != nil {
		return nil, fmt.Errorf("save work %s: %w", id, err)
	}

	if task := s.parentTask(ctx, work.TaskID); task != nil {
		s.notifyTask(ctx, task, fmt.Sprintf("Work %q was updated", work.Title))
	}
	return work, nil
}

// Delete removes the work's images from the host and then the work. An
// image host failure leaves the work in place.
func (s *WorkService) Delete(ctx context.Context, id, callerID string) error {
	work, err := s.gate.Authorize(ctx, id, callerID, ActionDelete)
	if err != nil {
		return err
	}
	if err := destroyAll(ctx, s.images, work.Images); err != nil {
		return err
	}
	if err := s.works.DeleteWork(ctx, work.WorkID); err != nil {
		return fmt.Errorf("delete work %s: %w", id, err)
	}

	if task := s.parentTask(ctx, work.TaskID); task != nil {
		s.notifyTask(ctx, task, fmt.Sprintf("Work %q was deleted from task %q", work.Title, task.Title))
	}
	return nil
}

// TaskTitle returns the title of the work's parent task, or "" when the task
// is gone.
func (s *WorkService) TaskTitle(ctx context.Context, taskID string) string {
	if task := s.parentTask(ctx, taskID); task != nil {
		return task.Title
	}
	return ""
}

// parentTask reads the task as it is now, for its current assignees. A
// missing task yields nil and no notification.
func (s *WorkService) parentTask(ctx context.Context, taskID string) *model.Task {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			slog.ErrorContext(ctx, "load parent task", "task_id", taskID, "error", err)
		}
		return nil
	}
	return task
}

func (s *WorkService) notifyTask(ctx context.Context, task *model.Task, msg string) {
	if _, err := s.notifier.Notify(ctx, task.AssignedUsers, msg, model.NotificationWork, taskLink(task.TaskID)); err != nil {
		slog.ErrorContext(ctx, "notify task assignees", "task_id", task.TaskID, "error", err)
	}
}
