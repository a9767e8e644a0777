package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
	ReviewService  *service.ReviewService
}

func NewPaymentController(paymentService *service.PaymentService, reviewService *service.ReviewService) *PaymentController {
	return &PaymentController{
		PaymentService: paymentService,
		ReviewService:  reviewService,
	}
}

// CreateOrderRequest 下单请求
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// CreateOrder godoc
// @Summary 下单购课
// @Description 免费课程直接完成选课，付费课程返回模拟收银台地址
// @Tags 学生端-订单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOrderRequest true "课程"
// @Success 201 {object} util.Response{data=service.CheckoutInfo}
// @Failure 400 {object} util.Response "已选课"
// @Router /api/student/orders [post]
func (c *PaymentController) CreateOrder(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	info, err := c.PaymentService.CreateOrder(actor.ID, req.CourseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, info)
}

// ConfirmPayment godoc
// @Summary 确认模拟支付
// @Description 置订单已支付并选课，重复确认幂等
// @Tags 学生端-订单
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} util.Response{data=model.Order}
// @Failure 404 {object} util.Response
// @Router /api/student/orders/{id}/confirm [post]
func (c *PaymentController) ConfirmPayment(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	order, err := c.PaymentService.ConfirmMockPayment(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, order)
}

// ListMyOrders godoc
// @Summary 我的订单
// @Tags 学生端-订单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Order}
// @Router /api/student/orders [get]
func (c *PaymentController) ListMyOrders(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	orders, err := c.PaymentService.ListMyOrders(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, orders)
}

// ListMyEnrollments godoc
// @Summary 我的课程（学生）
// @Tags 学生端-学习
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/student/enrollments [get]
func (c *PaymentController) ListMyEnrollments(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	enrollments, err := c.PaymentService.ListMyEnrollments(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// ReviewRequest 课程评价请求
// swagger:model ReviewRequest
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// SubmitReview godoc
// @Summary 提交课程评价
// @Description 重复提交按更新处理，课程评分统计同事务刷新
// @Tags 学生端-学习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body ReviewRequest true "评分与评论"
// @Success 200 {object} util.Response{data=model.Review}
// @Failure 400 {object} util.Response "评分超出范围"
// @Failure 403 {object} util.Response "未选课"
// @Router /api/student/courses/{id}/reviews [post]
func (c *PaymentController) SubmitReview(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.SubmitReview(actor.ID, util.MustParseUint(ctx.Param("id")), req.Rating, req.Comment)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, review)
}
