package model

import "time"

type NotificationType string

const (
	NotificationTask NotificationType = "task"
	NotificationWork NotificationType = "work"
)

func (t NotificationType) Valid() bool {
	return t == NotificationTask || t == NotificationWork
}

// Notification is addressed to Users at creation. ReadBy grows as each
// recipient marks it read; nobody is ever removed from either set.
type Notification struct {
	NotificationID string           `firestore:"notificationid,omitempty"`
	Users          IDSet            `firestore:"users"`
	Message        string           `firestore:"message,omitempty"`
	Type           NotificationType `firestore:"type,omitempty"`
	Link           string           `firestore:"link,omitempty"`
	ReadBy         IDSet            `firestore:"readby"`
	CreatedAt      time.Time        `firestore:"createdat,omitempty"`
	UpdatedAt      time.Time        `firestore:"updatedat,omitempty"`
}

func (n *Notification) AddressedTo(userID string) bool {
	return n.Users.Contains(userID)
}

func (n *Notification) ReadFor(userID string) bool {
	return n.ReadBy.Contains(userID)
}
