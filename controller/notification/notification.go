package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/httpx"
	"taskmanager/middleware"
	"taskmanager/services"
)

// NotificationController registers the inbox routes and the start-date
// sweep. The sweep is called by a scheduler, so it sits behind cron rather
// than user auth.
func NotificationController(router *gin.RouterGroup, auth, cron gin.HandlerFunc, notifications *services.NotificationService, reminders *services.ReminderService) {
	routes := router.Group("/notifications")
	{
		routes.GET("", auth, func(c *gin.Context) {
			ListNotifications(c, notifications)
		})
		routes.PUT("/:id/read", auth, func(c *gin.Context) {
			MarkNotificationRead(c, notifications)
		})
		routes.GET("/start-date-reminder", cron, func(c *gin.Context) {
			SendStartDateReminders(c, reminders)
		})
	}
}

func ListNotifications(c *gin.Context, notifications *services.NotificationService) {
	caller := middleware.CallerID(c)
	items, unread, err := notifications.ListForUser(c.Request.Context(), caller)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewNotificationList(items, unread, caller))
}

func MarkNotificationRead(c *gin.Context, notifications *services.NotificationService) {
	caller := middleware.CallerID(c)
	n, err := notifications.MarkRead(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewNotificationResponse(n, caller))
}

func SendStartDateReminders(c *gin.Context, reminders *services.ReminderService) {
	sent, err := reminders.SweepStartDates(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReminderResult{Success: true, NotifiedTasks: sent})
}
