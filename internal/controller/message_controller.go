package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessagingService *service.MessagingService
}

func NewMessageController(messagingService *service.MessagingService) *MessageController {
	return &MessageController{MessagingService: messagingService}
}

// ListConversations godoc
// @Summary 会话列表
// @Description 当前用户参与的全部会话，附最新消息与未读数
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.ConversationRow}
// @Router /api/conversations [get]
func (c *MessageController) ListConversations(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	rows, err := c.MessagingService.ListConversations(actor)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// UnreadCount godoc
// @Summary 未读消息总数
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/conversations/unread [get]
func (c *MessageController) UnreadCount(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	count, err := c.MessagingService.UnreadCount(actor)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unreadCount": count})
}

// GetConversation godoc
// @Summary 会话详情
// @Description 返回会话全部消息，打开即把他人消息标为已读
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response{data=service.ConversationDetail}
// @Failure 403 {object} util.Response "不是会话成员"
// @Router /api/conversations/{id} [get]
func (c *MessageController) GetConversation(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	detail, err := c.MessagingService.GetConversation(actor, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// SendMessageRequest 发消息请求
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage godoc
// @Summary 发消息
// @Description 群聊（课程公告）中学生不能发言
// @Tags 消息
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "会话ID"
// @Param body body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.Message}
// @Failure 403 {object} util.Response "不是会话成员或无发言权限"
// @Router /api/conversations/{id}/messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.MessagingService.SendMessage(actor, util.MustParseUint(ctx.Param("id")), req.Content)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

// MarkRead godoc
// @Summary 标记会话已读
// @Description 幂等：重复调用返回 cleared = 0
// @Tags 消息
// @Produce json
// @Security BearerAuth
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/conversations/{id}/read [put]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	cleared, err := c.MessagingService.MarkRead(actor, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": cleared})
}

// StartChatRequest 发起私聊请求，peerId 是对方的教师/学生ID
type StartChatRequest struct {
	PeerID uint `json:"peerId" binding:"required"`
}

// StartPrivateChat godoc
// @Summary 发起私聊
// @Description 获取或创建与对方的私聊会话
// @Tags 消息
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StartChatRequest true "对方ID"
// @Success 200 {object} util.Response{data=model.Conversation}
// @Router /api/conversations [post]
func (c *MessageController) StartPrivateChat(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req StartChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	conv, err := c.MessagingService.StartPrivateChat(actor, req.PeerID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, conv)
}

// BroadcastRequest 课程公告广播请求
// swagger:model BroadcastRequest
type BroadcastRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

// Broadcast godoc
// @Summary 课程公告广播
// @Description 向课程群聊发一条消息，并给每个已选课学生各发一条站内通知，同一事务
// @Tags 教师端-消息
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body BroadcastRequest true "公告内容"
// @Success 201 {object} util.Response{data=service.BroadcastResult}
// @Failure 404 {object} util.Response "课程不存在或无权限"
// @Router /api/teacher/courses/{id}/broadcast [post]
func (c *MessageController) Broadcast(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req BroadcastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.MessagingService.Broadcast(actor.ID, util.MustParseUint(ctx.Param("id")), req.Title, req.Content)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, result)
}
