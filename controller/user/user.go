package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/middleware"
	"taskmanager/services"
)

func UserController(router *gin.RouterGroup, auth gin.HandlerFunc, users *services.UserService) {
	routes := router.Group("/users", auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListUsers(c, users)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetUser(c, users)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateProfileUser(c, users)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteUser(c, users)
		})
	}
}

func ListUsers(c *gin.Context, users *services.UserService) {
	list, err := users.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponses(list))
}

func GetUser(c *gin.Context, users *services.UserService) {
	u, err := users.Get(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

func UpdateProfileUser(c *gin.Context, users *services.UserService) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	if httpx.IsMultipart(c) && req.Name != nil {
		name := middleware.SanitizeText(*req.Name)
		req.Name = &name
	}
	avatar, err := httpx.FormFile(c, "display_image")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	u, err := users.Update(c.Request.Context(), c.Param("id"), middleware.CallerID(c), services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   avatar,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

func DeleteUser(c *gin.Context, users *services.UserService) {
	if err := users.Delete(c.Request.Context(), c.Param("id"), middleware.CallerID(c)); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "User removed")
}
