package work

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/middleware"
	"taskmanager/model"
	"taskmanager/services"
)

func WorkController(router *gin.RouterGroup, auth gin.HandlerFunc, works *services.WorkService, users *services.UserService) {
	tasks := router.Group("/tasks/:id/works", auth)
	{
		tasks.GET("", func(c *gin.Context) {
			ListWorks(c, works, users)
		})
		tasks.POST("", func(c *gin.Context) {
			CreateWork(c, works, users)
		})
	}

	routes := router.Group("/works", auth)
	{
		routes.GET("/:id", func(c *gin.Context) {
			GetWork(c, works, users)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateWork(c, works, users)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteWork(c, works)
		})
	}
}

// bindWorkForm reads the text fields, stripped of markup, and the uploaded
// images.
func bindWorkForm(c *gin.Context) (dto.WorkForm, []services.Upload, error) {
	var form dto.WorkForm
	if err := c.ShouldBind(&form); err != nil {
		return form, nil, httpx.BindError(err)
	}
	if httpx.IsMultipart(c) {
		for _, field := range []**string{&form.Title, &form.Description, &form.TimeRange, &form.ShareURL} {
			if *field != nil {
				clean := middleware.SanitizeText(**field)
				*field = &clean
			}
		}
		for i, id := range form.RemoveImagePublicIDs {
			form.RemoveImagePublicIDs[i] = middleware.SanitizeText(id)
		}
	}
	images, err := httpx.FormFiles(c, "images")
	if err != nil {
		return form, nil, err
	}
	return form, images, nil
}

func ListWorks(c *gin.Context, works *services.WorkService, users *services.UserService) {
	taskID := c.Param("id")
	list, err := works.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var authors []string
	for _, w := range list {
		authors = append(authors, w.CreatedBy)
	}
	summaries, err := users.Summaries(c.Request.Context(), authors)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	title := works.TaskTitle(c.Request.Context(), taskID)
	out := make([]dto.WorkResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewWorkResponse(&list[i], title, summaries))
	}
	c.JSON(http.StatusOK, out)
}

func CreateWork(c *gin.Context, works *services.WorkService, users *services.UserService) {
	form, images, err := bindWorkForm(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	w, err := works.Create(c.Request.Context(), c.Param("id"), middleware.CallerID(c), services.CreateWorkInput{
		Title:       form.TitleValue(),
		Description: form.DescriptionValue(),
		TimeRange:   form.TimeRangeValue(),
		ShareURL:    form.ShareURLValue(),
		Images:      images,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	respondWork(c, http.StatusCreated, works, users, w)
}

func GetWork(c *gin.Context, works *services.WorkService, users *services.UserService) {
	w, err := works.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	respondWork(c, http.StatusOK, works, users, w)
}

func UpdateWork(c *gin.Context, works *services.WorkService, users *services.UserService) {
	form, images, err := bindWorkForm(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	remove, err := form.RemoveIDs()
	if err != nil {
		httpx.Error(c, err)
		return
	}
	w, err := works.Update(c.Request.Context(), c.Param("id"), middleware.CallerID(c), services.UpdateWorkInput{
		Title:        form.Title,
		Description:  form.Description,
		TimeRange:    form.TimeRange,
		ShareURL:     form.ShareURL,
		RemoveImages: remove,
		AddImages:    images,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	respondWork(c, http.StatusOK, works, users, w)
}

func DeleteWork(c *gin.Context, works *services.WorkService) {
	if err := works.Delete(c.Request.Context(), c.Param("id"), middleware.CallerID(c)); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Work deleted")
}

func respondWork(c *gin.Context, code int, works *services.WorkService, users *services.UserService, w *model.Work) {
	summaries, err := users.Summaries(c.Request.Context(), []string{w.CreatedBy})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(code, dto.NewWorkResponse(w, works.TaskTitle(c.Request.Context(), w.TaskID), summaries))
}
