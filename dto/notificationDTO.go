package dto

import (
	"time"

	"taskmanager/model"
)

type NotificationResponse struct {
	ID        string    `json:"id"`
	Users     []string  `json:"users"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	ReadBy    []string  `json:"readBy"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewNotificationResponse annotates n with viewerID's read flag.
func NewNotificationResponse(n *model.Notification, viewerID string) NotificationResponse {
	return NotificationResponse{
		ID:        n.NotificationID,
		Users:     n.Users.Slice(),
		Message:   n.Message,
		Type:      string(n.Type),
		Link:      n.Link,
		ReadBy:    n.ReadBy.Slice(),
		Read:      n.ReadFor(viewerID),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type NotificationList struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

func NewNotificationList(items []model.Notification, unread int64, viewerID string) NotificationList {
	out := make([]NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewNotificationResponse(&items[i], viewerID))
	}
	return NotificationList{Notifications: out, UnreadCount: unread}
}

type ReminderResult struct {
	Success       bool `json:"success"`
	NotifiedTasks int  `json:"notifiedTasks"`
}
