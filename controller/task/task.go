package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/middleware"
	"taskmanager/model"
	"taskmanager/services"
)

func TaskController(router *gin.RouterGroup, auth gin.HandlerFunc, tasks *services.TaskService, users *services.UserService) {
	routes := router.Group("/tasks", auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, tasks, users)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, tasks, users)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetTask(c, tasks, users)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateTask(c, tasks, users)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteTask(c, tasks)
		})
	}
}

func ListTasks(c *gin.Context, tasks *services.TaskService, users *services.UserService) {
	var q dto.TaskQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	views, err := tasks.ListForCaller(c.Request.Context(), middleware.CallerID(c), services.TaskFilter{
		Search: q.Search,
		Status: model.TaskStatus(q.Status),
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	respondTasks(c, http.StatusOK, users, views...)
}

func CreateTask(c *gin.Context, tasks *services.TaskService, users *services.UserService) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	view, err := tasks.Create(c.Request.Context(), middleware.CallerID(c), req.Input())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	respondTask(c, http.StatusCreated, users, *view)
}

func GetTask(c *gin.Context, tasks *services.TaskService, users *services.UserService) {
	view, err := tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	respondTask(c, http.StatusOK, users, *view)
}

func UpdateTask(c *gin.Context, tasks *services.TaskService, users *services.UserService) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}
	view, err := tasks.Update(c.Request.Context(), c.Param("id"), middleware.CallerID(c), req.Input())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	respondTask(c, http.StatusOK, users, *view)
}

func DeleteTask(c *gin.Context, tasks *services.TaskService) {
	if err := tasks.Delete(c.Request.Context(), c.Param("id"), middleware.CallerID(c)); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Task removed")
}

func respondTask(c *gin.Context, code int, users *services.UserService, view services.TaskView) {
	summaries, err := users.Summaries(c.Request.Context(), dto.TaskUserIDs(view))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(code, dto.NewTaskResponse(view, summaries))
}

func respondTasks(c *gin.Context, code int, users *services.UserService, views ...services.TaskView) {
	summaries, err := users.Summaries(c.Request.Context(), dto.TaskUserIDs(views...))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]dto.TaskResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NewTaskResponse(v, summaries))
	}
	c.JSON(code, out)
}
