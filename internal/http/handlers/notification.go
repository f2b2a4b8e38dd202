package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/novinresanehco/lifeos-backend/internal/http/response"
	"github.com/novinresanehco/lifeos-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	var (
		notifications any
		listErr       error
	)
	if c.Query("unread") == "true" {
		notifications, listErr = nh.notificationService.Unread(c.Request.Context(), userID)
	} else {
		notifications, listErr = nh.notificationService.List(c.Request.Context(), userID)
	}
	if listErr != nil {
		response.Err(c, listErr)
		return
	}
	response.OK(c, notifications)
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Err(c, err)
		return
	}
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		response.Err(c, err)
		return
	}
	if err := nh.notificationService.MarkAsRead(c.Request.Context(), userID, notificationID); err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, gin.H{"read": notificationID})
}
