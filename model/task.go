package model

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone:
		return true
	}
	return false
}

type Task struct {
	TaskID        string     `firestore:"taskid,omitempty"`
	Title         string     `firestore:"title,omitempty"`
	Description   string     `firestore:"description,omitempty"`
	Status        TaskStatus `firestore:"status,omitempty"`
	StartDate     *time.Time `firestore:"startdate,omitempty"`
	Deadline      *time.Time `firestore:"deadline,omitempty"`
	CreatedBy     string     `firestore:"createdby,omitempty"`
	AssignedUsers IDSet      `firestore:"assignedusers"`
	// Set once the start-date reminder went out. Never omitted so the sweep
	// can filter on false.
	StartReminderSent bool      `firestore:"startremindersent"`
	CreatedAt         time.Time `firestore:"createdat,omitempty"`
	UpdatedAt         time.Time `firestore:"updatedat,omitempty"`
}

func (t *Task) OwnerID() string { return t.CreatedBy }

// Involves reports whether userID created or is assigned to the task.
func (t *Task) Involves(userID string) bool {
	return t.CreatedBy == userID || t.AssignedUsers.Contains(userID)
}
