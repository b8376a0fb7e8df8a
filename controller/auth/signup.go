package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/middleware"
	"taskmanager/model"
	"taskmanager/services"
)

func SignUpController(router *gin.RouterGroup, authService *services.AuthService) {
	router.POST("/auth/register", func(c *gin.Context) {
		Signup(c, authService)
	})
}

// Signup accepts JSON, or a multipart form when a display_image is sent.
func Signup(c *gin.Context, authService *services.AuthService) {
	var request dto.RegisterRequest
	if err := c.ShouldBind(&request); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	if httpx.IsMultipart(c) {
		request.Name = middleware.SanitizeText(request.Name)
	}
	avatar, err := httpx.FormFile(c, "display_image")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	user, tokens, err := authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Role:     model.Role(request.Role),
		Avatar:   avatar,
	}, services.CaptchaRequest{
		Token:     request.CaptchaToken,
		Action:    "register",
		UserIP:    getClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAuthResponse("User registered successfully", user, tokens))
}
