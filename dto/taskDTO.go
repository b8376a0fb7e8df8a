package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"taskmanager/model"
	"taskmanager/services"
)

// Date accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (taken as
// midnight UTC).
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// Ptr returns nil for a nil or zero date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

type CreateTaskRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Status        string   `json:"status" binding:"omitempty,oneof=pending in_progress done"`
	StartDate     *Date    `json:"startDate"`
	Deadline      *Date    `json:"deadline"`
	AssignedUsers []string `json:"assignedUsers"`
}

func (r CreateTaskRequest) Input() services.CreateTaskInput {
	return services.CreateTaskInput{
		Title:         r.Title,
		Description:   r.Description,
		Status:        model.TaskStatus(r.Status),
		StartDate:     r.StartDate.Ptr(),
		Deadline:      r.Deadline.Ptr(),
		AssignedUsers: r.AssignedUsers,
	}
}

type UpdateTaskRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Status        *string   `json:"status" binding:"omitempty,oneof=pending in_progress done"`
	StartDate     *Date     `json:"startDate"`
	Deadline      *Date     `json:"deadline"`
	AssignedUsers *[]string `json:"assignedUsers"`
}

func (r UpdateTaskRequest) Input() services.UpdateTaskInput {
	in := services.UpdateTaskInput{
		Title:         r.Title,
		Description:   r.Description,
		StartDate:     r.StartDate.Ptr(),
		Deadline:      r.Deadline.Ptr(),
		AssignedUsers: r.AssignedUsers,
	}
	if r.Status != nil {
		s := model.TaskStatus(*r.Status)
		in.Status = &s
	}
	return in
}

type TaskQuery struct {
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=pending in_progress done"`
}

type TaskResponse struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Status            string        `json:"status"`
	StartDate         *time.Time    `json:"startDate"`
	Deadline          *time.Time    `json:"deadline"`
	CreatedBy         *UserSummary  `json:"createdBy"`
	AssignedUsers     []UserSummary `json:"assignedUsers"`
	WorkCount         int64         `json:"workCount"`
	StartReminderSent bool          `json:"startReminderSent"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// TaskUserIDs lists every user a task response refers to.
func TaskUserIDs(tasks ...services.TaskView) []string {
	var ids []string
	for _, t := range tasks {
		ids = append(ids, t.CreatedBy)
		ids = append(ids, t.AssignedUsers...)
	}
	return ids
}

func NewTaskResponse(t services.TaskView, users map[string]model.User) TaskResponse {
	return TaskResponse{
		ID:                t.TaskID,
		Title:             t.Title,
		Description:       t.Description,
		Status:            string(t.Status),
		StartDate:         t.StartDate,
		Deadline:          t.Deadline,
		CreatedBy:         Summary(users, t.CreatedBy),
		AssignedUsers:     Summaries(users, t.AssignedUsers),
		WorkCount:         t.WorkCount,
		StartReminderSent: t.StartReminderSent,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
