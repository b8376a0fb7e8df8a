package model

import "time"

type Role string

const (
	RoleOwner          Role = "owner"
	RoleCoOwner        Role = "co_owner"
	RoleProjectManager Role = "project_manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleCoOwner, RoleProjectManager:
		return true
	}
	return false
}

type User struct {
	UserID    string    `firestore:"userid,omitempty"`
	Name      string    `firestore:"name,omitempty"`
	Email     string    `firestore:"email,omitempty"` // always lowercased
	Password  string    `firestore:"password,omitempty"`
	Role      Role      `firestore:"role,omitempty"`
	Avatar    string    `firestore:"display_image,omitempty"`
	AvatarID  string    `firestore:"display_image_id,omitempty"` // image host id when we uploaded it
	CreatedAt time.Time `firestore:"createdat,omitempty"`
	UpdatedAt time.Time `firestore:"updatedat,omitempty"`
}

func (u *User) OwnerID() string { return u.UserID }
