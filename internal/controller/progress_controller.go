package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// SubmitProgressRequest 进度上报请求
// swagger:model SubmitProgressRequest
type SubmitProgressRequest struct {
	LessonID       uint `json:"lessonId" binding:"required"`
	WatchedSeconds int  `json:"watchedSeconds" binding:"min=0"`
	Completed      bool `json:"completed"`
}

// SubmitProgress godoc
// @Summary 上报课时进度
// @Description 覆盖更新课时台账，重算课程完成状态；首次完成课程时同事务发放证书
// @Tags 学生端-学习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitProgressRequest true "进度数据"
// @Success 200 {object} util.Response{data=service.SubmitProgressResult}
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/student/progress [post]
func (c *ProgressController) SubmitProgress(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req SubmitProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitLessonProgress(actor.ID, req.LessonID, req.WatchedSeconds, req.Completed)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetCourseContent godoc
// @Summary 课程学习视图
// @Description 已选课学生查看完整目录及本人每课时进度
// @Tags 学生端-学习
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseContentView}
// @Failure 403 {object} util.Response "未选课"
// @Router /api/student/courses/{id}/content [get]
func (c *ProgressController) GetCourseContent(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	view, err := c.ProgressService.GetCourseContent(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CourseStudents godoc
// @Summary 课程学生进度列表
// @Tags 教师端-教学分析
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]service.CourseStudentRow}
// @Failure 404 {object} util.Response "课程不存在或无权限"
// @Router /api/teacher/courses/{id}/students [get]
func (c *ProgressController) CourseStudents(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	rows, err := c.ProgressService.CourseStudents(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// StudentDetail godoc
// @Summary 学生学习明细
// @Description 单个学生在某课程的逐课时进度与测验作答记录
// @Tags 教师端-教学分析
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentDetailView}
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id}/students/{studentId} [get]
func (c *ProgressController) StudentDetail(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	view, err := c.ProgressService.StudentDetail(actor.ID,
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("studentId")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CourseAnalytics godoc
// @Summary 课程进度分析
// @Description 完成率、平均进度、近7天活跃人数与进度分布分桶
// @Tags 教师端-教学分析
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseAnalyticsView}
// @Failure 404 {object} util.Response "课程不存在或无权限"
// @Router /api/teacher/courses/{id}/analytics [get]
func (c *ProgressController) CourseAnalytics(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	view, err := c.ProgressService.CourseAnalytics(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
