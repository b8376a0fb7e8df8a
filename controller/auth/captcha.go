package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/services"
)

func CaptchaController(router *gin.RouterGroup, authService *services.AuthService) {
	routes := router.Group("/auth")
	{
		routes.POST("/captcha", func(c *gin.Context) {
			VerifyCaptcha(c, authService)
		})
	}
}

func VerifyCaptcha(c *gin.Context, authService *services.AuthService) {
	var req dto.CaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	result, err := authService.VerifyCaptcha(c.Request.Context(), services.CaptchaRequest{
		Token:     req.Token,
		Action:    req.Action,
		UserIP:    getClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   result.Score,
		"action":  result.Action,
		"reasons": result.Reasons,
		"message": "Captcha verified successfully",
	})
}

// getClientIP keeps only the first address of a forwarded chain.
func getClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = c.Request.RemoteAddr
	}
	if idx := strings.Index(ip, ","); idx != -1 {
		ip = strings.TrimSpace(ip[:idx])
	}
	return ip
}
