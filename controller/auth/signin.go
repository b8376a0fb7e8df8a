package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/middleware"
	"taskmanager/services"
)

func SignInController(router *gin.RouterGroup, authService *services.AuthService) {
	router.POST("/auth/login", func(c *gin.Context) {
		Signin(c, authService)
	})
}

// SessionController registers the routes that act on an existing session.
func SessionController(router *gin.RouterGroup, access, refresh gin.HandlerFunc, authService *services.AuthService, users *services.UserService) {
	routes := router.Group("/auth")
	{
		routes.POST("/refresh", refresh, func(c *gin.Context) {
			Refresh(c, authService)
		})
		routes.POST("/logout", access, func(c *gin.Context) {
			Logout(c, authService)
		})
		routes.GET("/me", access, func(c *gin.Context) {
			Me(c, users)
		})
	}
}

func Signin(c *gin.Context, authService *services.AuthService) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	user, tokens, err := authService.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse("Login Successfully", user, tokens))
}

func Refresh(c *gin.Context, authService *services.AuthService) {
	tokens, err := authService.Refresh(c.Request.Context(), c.GetString(middleware.RefreshTokenKey))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokens})
}

func Logout(c *gin.Context, authService *services.AuthService) {
	if err := authService.Logout(c.Request.Context(), middleware.CallerID(c)); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Logged out")
}

func Me(c *gin.Context, users *services.UserService) {
	user, err := users.Me(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
