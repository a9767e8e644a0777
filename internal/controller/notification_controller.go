package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// ListNotifications godoc
// @Summary 我的通知
// @Tags 学生端-通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Notification}
// @Router /api/student/notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	notifications, err := c.NotificationService.ListMyNotifications(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notifications)
}

// UnreadCount godoc
// @Summary 未读通知数
// @Tags 学生端-通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/student/notifications/unread [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	count, err := c.NotificationService.UnreadCount(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unreadCount": count})
}

// MarkRead godoc
// @Summary 标记通知已读
// @Tags 学生端-通知
// @Produce json
// @Security BearerAuth
// @Param id path int true "通知ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/student/notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	if err := c.NotificationService.MarkRead(actor.ID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

// MarkAllRead godoc
// @Summary 全部标记已读
// @Tags 学生端-通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/student/notifications/read-all [put]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	cleared, err := c.NotificationService.MarkAllRead(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": cleared})
}
