package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskmanager/model"
)

type CreateTaskInput struct {
	Title         string
	Description   string
	Status        model.TaskStatus
	StartDate     *time.Time
	Deadline      *time.Time
	AssignedUsers []string
}

// UpdateTaskInput carries only the fields the caller sent.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *model.TaskStatus
	StartDate     *time.Time
	Deadline      *time.Time
	AssignedUsers *[]string
}

type TaskFilter struct {
	Search string
	Status model.TaskStatus
}

// TaskView is a task with its work count, computed when it was read.
type TaskView struct {
	model.Task
	WorkCount int64
}

type TaskService struct {
	tasks    TaskStore
	works    WorkStore
	users    UserStore
	images   ImageHost
	notifier *NotificationService
	gate     Gate[*model.Task]
	now      func() time.Time
}

func NewTaskService(tasks TaskStore, works WorkStore, users UserStore, images ImageHost, notifier *NotificationService) *TaskService {
	return &TaskService{
		tasks:    tasks,
		works:    works,
		users:    users,
		images:   images,
		notifier: notifier,
		gate:     taskGate(tasks),
		now:      time.Now,
	}
}

func (s *TaskService) Create(ctx context.Context, callerID string, in CreateTaskInput) (*TaskView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &model.ValidationError{Field: "title", Message: "Title is required"}
	}
	status := in.Status
	if status == "" {
		status = model.TaskPending
	}
	if !status.Valid() {
		return nil, &model.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	assigned := model.NewIDSet(in.AssignedUsers...)
	if err := s.checkUsersExist(ctx, assigned); err != nil {
		return nil, err
	}

	now := s.now()
	task := &model.Task{
		TaskID:        uuid.New().String(),
		Title:         title,
		Description:   in.Description,
		Status:        status,
		StartDate:     in.StartDate,
		Deadline:      in.Deadline,
		CreatedBy:     callerID,
		AssignedUsers: assigned,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if task.AssignedUsers == nil {
		task.AssignedUsers = model.IDSet{}
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.notifyAssigned(ctx, task, assigned)
	return &TaskView{Task: *task}, nil
}

// Get returns any task to any authenticated caller.
func (s *TaskService) Get(ctx context.Context, id string) (*TaskView, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Task not found")
	}
	count, err := s.works.CountWorksByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count works of task %s: %w", id, err)
	}
	return &TaskView{Task: *task, WorkCount: count}, nil
}

// ListForCaller returns tasks the caller created or is assigned to, newest
// first, each with a work count taken at read time.
func (s *TaskService) ListForCaller(ctx context.Context, callerID string, f TaskFilter) ([]TaskView, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, &model.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", f.Status)}
	}
	tasks, err := s.tasks.ListTasksFor(ctx, callerID, f.Status)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		if !t.Involves(callerID) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		count, err := s.works.CountWorksByTask(ctx, t.TaskID)
		if err != nil {
			return nil, fmt.Errorf("count works of task %s: %w", t.TaskID, err)
		}
		views = append(views, TaskView{Task: t, WorkCount: count})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

func (s *TaskService) Update(ctx context.Context, id, callerID string, in UpdateTaskInput) (*TaskView, error) {
	task, err := s.gate.Authorize(ctx, id, callerID, ActionUpdate)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, &model.ValidationError{Field: "title", Message: "Title cannot be empty"}
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, &model.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *in.Status)}
		}
		task.Status = *in.Status
	}
	if in.StartDate != nil {
		if task.StartDate == nil || !in.StartDate.Equal(*task.StartDate) {
			task.StartReminderSent = false
		}
		task.StartDate = in.StartDate
	}
	if in.Deadline != nil {
		task.Deadline = in.Deadline
	}

	var added model.IDSet
	if in.AssignedUsers != nil {
		assigned := model.NewIDSet(*in.AssignedUsers...)
		if err := s.checkUsersExist(ctx, assigned.Difference(task.AssignedUsers)); err != nil {
			return nil, err
		}
		added = assigned.Difference(task.AssignedUsers)
		if assigned == nil {
			assigned = model.IDSet{}
		}
		task.AssignedUsers = assigned
	}
	task.UpdatedAt = s.now()

	if err := s.tasks.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("save task %s: %w", id, err)
	}
	s.notifyAssigned(ctx, task, added)

	count, err := s.works.CountWorksByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count works of task %s: %w", id, err)
	}
	return &TaskView{Task: *task, WorkCount: count}, nil
}

// Delete removes a task and everything hanging off it, leaf first: each
// work's images on the host, then the work, and only then the task. The
// first image host failure aborts the whole deletion; whatever was already
// removed stays removed.
func (s *TaskService) Delete(ctx context.Context, id, callerID string) error {
	task, err := s.gate.Authorize(ctx, id, callerID, ActionDelete)
	if err != nil {
		return err
	}

	works, err := s.works.ListWorksByTask(ctx, task.TaskID)
	if err != nil {
		return fmt.Errorf("list works of task %s: %w", id, err)
	}
	for _, w := range works {
		if err := destroyAll(ctx, s.images, w.Images); err != nil {
			return fmt.Errorf("delete task %s: work %s: %w", id, w.WorkID, err)
		}
		if err := s.works.DeleteWork(ctx, w.WorkID); err != nil {
			return fmt.Errorf("delete work %s: %w", w.WorkID, err)
		}
	}

	if err := s.tasks.DeleteTask(ctx, task.TaskID); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	slog.InfoContext(ctx, "task deleted", "task_id", id, "works", len(works))
	return nil
}

func (s *TaskService) checkUsersExist(ctx context.Context, ids model.IDSet) error {
	if ids.Len() == 0 {
		return nil
	}
	found, err := s.users.GetUsers(ctx, ids.Slice())
	if err != nil {
		return fmt.Errorf("look up assigned users: %w", err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return &model.ValidationError{Field: "assignedUsers", Message: fmt.Sprintf("unknown user %q", id)}
		}
	}
	return nil
}

// notifyAssigned tells newly assigned users about the task. The task is
// already stored, so a failure here is logged rather than returned.
func (s *TaskService) notifyAssigned(ctx context.Context, task *model.Task, recipients model.IDSet) {
	msg := fmt.Sprintf("You have been assigned to task %q", task.Title)
	if _, err := s.notifier.Notify(ctx, recipients, msg, model.NotificationTask, taskLink(task.TaskID)); err != nil {
		slog.ErrorContext(ctx, "notify assigned users", "task_id", task.TaskID, "error", err)
	}
}

func taskLink(taskID string) string {
	return "/tasks/" + taskID
}
