package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// RevenueSummary godoc
// @Summary 收入总览
// @Description 总收入、按课程与近30天每日收入
// @Tags 教师端-经营分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.RevenueSummary}
// @Router /api/teacher/analytics/revenue [get]
func (c *AnalyticsController) RevenueSummary(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	summary, err := c.AnalyticsService.RevenueSummary(ctx.Request.Context(), actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// CoursePerformance godoc
// @Summary 课程表现
// @Description 名下各课程的报名数、评分与浏览量
// @Tags 教师端-经营分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.CoursePerformanceRow}
// @Router /api/teacher/analytics/courses [get]
func (c *AnalyticsController) CoursePerformance(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	rows, err := c.AnalyticsService.CoursePerformance(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
