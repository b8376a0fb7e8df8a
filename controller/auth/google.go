package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/services"
)

func GoogleSignInController(router *gin.RouterGroup, authService *services.AuthService) {
	router.POST("/auth/google", func(c *gin.Context) {
		GoogleSignIn(c, authService)
	})
}

// GoogleSignIn exchanges a Google ID token for our own token pair. The
// account is created on first sign-in.
func GoogleSignIn(c *gin.Context, authService *services.AuthService) {
	var req dto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	user, tokens, err := authService.GoogleSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse("Login Successfully", user, tokens))
}
