package dto

import (
	"time"

	"taskmanager/model"
)

type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	DisplayImage string    `json:"display_image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.UserID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		DisplayImage: u.Avatar,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func NewUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// UserSummary is how other entities refer to a user.
type UserSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DisplayImage string `json:"display_image,omitempty"`
}

// Summary looks id up in users; nil when the user no longer exists.
func Summary(users map[string]model.User, id string) *UserSummary {
	u, ok := users[id]
	if !ok {
		return nil
	}
	return &UserSummary{ID: u.UserID, Name: u.Name, Email: u.Email, DisplayImage: u.Avatar}
}

// Summaries keeps the order of ids and skips users that no longer exist.
func Summaries(users map[string]model.User, ids []string) []UserSummary {
	out := make([]UserSummary, 0, len(ids))
	for _, id := range ids {
		if s := Summary(users, id); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// UpdateProfileRequest fields left out of the request keep their value.
type UpdateProfileRequest struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email" binding:"omitempty,email"`
	Password *string `json:"password" form:"password" binding:"omitempty,min=6"`
}
