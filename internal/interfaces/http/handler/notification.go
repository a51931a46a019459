package handler

import (
	notificationapp "github.com/fintrack/backend/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the in-app notification inbox
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
//
//	@ID				listNotifications
//	@Summary		List notifications
//	@Description	Newest first
//	@Tags			notifications
//	@Produce		json
//	@Param			unread_only	query		bool	false	"Only unread"
//	@Param			type		query		string	false	"Notification type"	Enums(subscription_upcoming, subscription_renewed, goal_completed, system)
//	@Param			page		query		int		false	"Page number"		default(1)
//	@Param			page_size	query		int		false	"Page size"			default(20)
//	@Success		200			{object}	APIResponse[[]notificationapp.NotificationResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var filter notificationapp.NotificationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.notificationService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// UnreadCount godoc
//
//	@ID				countUnreadNotifications
//	@Summary		Count unread notifications
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	APIResponse[notificationapp.UnreadCountResponse]
//	@Security		BearerAuth
//	@Router			/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	resp, err := h.notificationService.UnreadCount(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkRead godoc
//
//	@ID				markNotificationRead
//	@Summary		Mark a notification read
//	@Tags			notifications
//	@Produce		json
//	@Param			id	path		string	true	"Notification ID"	format(uuid)
//	@Success		200	{object}	APIResponse[notificationapp.NotificationResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	byID(&h.BaseHandler, c, h.notificationService.MarkRead)
}

// MarkAllRead godoc
//
//	@ID				markAllNotificationsRead
//	@Summary		Mark every notification read
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	APIResponse[notificationapp.MarkAllReadResponse]
//	@Security		BearerAuth
//	@Router			/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	resp, err := h.notificationService.MarkAllRead(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteNotification
//	@Summary		Delete a notification
//	@Tags			notifications
//	@Param			id	path	string	true	"Notification ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
