package dto

import (
	"taskmanager/model"
	"taskmanager/services"
)

// RegisterRequest binds from JSON or from a multipart form that may carry a
// display_image file.
type RegisterRequest struct {
	Name         string `json:"name" form:"name" binding:"required"`
	Email        string `json:"email" form:"email" binding:"required,email"`
	Password     string `json:"password" form:"password" binding:"required,min=6"`
	Role         string `json:"role" form:"role" binding:"omitempty,oneof=owner co_owner project_manager"`
	CaptchaToken string `json:"captchaToken" form:"captchaToken"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type CaptchaRequest struct {
	Token  string `json:"token" binding:"required"`
	Action string `json:"action"`
}

type AuthResponse struct {
	Message string              `json:"message"`
	User    UserResponse        `json:"user"`
	Token   *services.TokenPair `json:"token"`
}

func NewAuthResponse(msg string, u *model.User, tokens *services.TokenPair) AuthResponse {
	return AuthResponse{Message: msg, User: NewUserResponse(u), Token: tokens}
}
