package handlers

import (
	"net/http"

	"servimarket/utils"

	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler handles GET /api/notifications. Admins can pass
// ?all=true to see every user's notifications.
func (h *HandlerBundle) ListNotificationsHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	allUsers := c.Query("all") == "true"
	notifications, err := h.NotificationService.ListNotifications(u, roles, allUsers)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationReadHandler handles PUT /api/notifications/:id/read.
func (h *HandlerBundle) MarkNotificationReadHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	notification, err := h.NotificationService.MarkRead(u, roles, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

// MarkAllNotificationsReadHandler handles PUT /api/notifications/read-all.
func (h *HandlerBundle) MarkAllNotificationsReadHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	if err := h.NotificationService.MarkAllRead(u); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// CountUnreadNotificationsHandler handles GET /api/notifications/unread-count.
func (h *HandlerBundle) CountUnreadNotificationsHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	count, err := h.NotificationService.CountUnread(u)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// DeleteNotificationHandler handles DELETE /api/notifications/:id.
func (h *HandlerBundle) DeleteNotificationHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.NotificationService.DeleteNotification(u, roles, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
