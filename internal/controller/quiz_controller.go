package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListQuizzes godoc
// @Summary 课程测验列表（学生）
// @Tags 学生端-测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Failure 403 {object} util.Response "未选课"
// @Router /api/student/courses/{id}/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	quizzes, err := c.QuizService.ListQuizzesForStudent(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// GetQuiz godoc
// @Summary 测验答题视图（学生）
// @Description 返回题目与选项，不含正确答案标记
// @Tags 学生端-测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response "未选课"
// @Router /api/student/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	quiz, err := c.QuizService.GetQuizForStudent(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// SubmitAttemptRequest 作答提交：题目ID -> 所选选项ID
// swagger:model SubmitAttemptRequest
type SubmitAttemptRequest struct {
	Answers map[uint]uint `json:"answers" binding:"required"`
}

// SubmitAttempt godoc
// @Summary 提交测验作答
// @Description 按全部题目数计分，漏答与非法选项按答错计；达到及格线即通过
// @Tags 学生端-测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param body body SubmitAttemptRequest true "作答"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 400 {object} util.Response "测验无题目或未作答"
// @Router /api/student/quizzes/{id}/attempts [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAttempt(actor.ID, util.MustParseUint(ctx.Param("id")), req.Answers)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListMyAttempts godoc
// @Summary 我的作答记录
// @Tags 学生端-测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/student/quizzes/{id}/attempts [get]
func (c *QuizController) ListMyAttempts(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	attempts, err := c.QuizService.ListMyAttempts(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// QuizRequest 测验创建/更新请求
type QuizRequest struct {
	CourseID    uint   `json:"courseId"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	PassMark    int    `json:"passMark" binding:"min=0,max=100"`
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 教师端-测验管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body QuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/teacher/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		PassMark:    req.PassMark,
	}
	if err := c.QuizService.CreateQuiz(actor.ID, quiz); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Tags 教师端-测验管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param body body QuizRequest true "测验信息"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/teacher/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(actor.ID, util.MustParseUint(ctx.Param("id")), req.Title, req.Description, req.PassMark)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Tags 教师端-测验管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)
	if err := c.QuizService.DeleteQuiz(actor.ID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// OptionRequest 选项
type OptionRequest struct {
	OptionText string `json:"optionText" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuestionRequest 题目连同选项
type QuestionRequest struct {
	QuizID       uint            `json:"quizId" binding:"required"`
	QuestionText string          `json:"questionText" binding:"required"`
	Order        int             `json:"order"`
	Options      []OptionRequest `json:"options" binding:"required,min=2"`
}

// AddQuestion godoc
// @Summary 添加题目
// @Tags 教师端-测验管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body QuestionRequest true "题目与选项"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/teacher/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.Question{
		QuizID:       req.QuizID,
		QuestionText: req.QuestionText,
		Order:        req.Order,
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, model.Option{
			OptionText: o.OptionText,
			IsCorrect:  o.IsCorrect,
		})
	}

	if err := c.QuizService.AddQuestion(actor.ID, question); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 教师端-测验管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)
	if err := c.QuizService.DeleteQuestion(actor.ID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// GetQuizForTeacher godoc
// @Summary 测验管理视图（教师）
// @Description 含正确答案标记与全部学生作答记录
// @Tags 教师端-测验管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.TeacherQuizView}
// @Router /api/teacher/quizzes/{id} [get]
func (c *QuizController) GetQuizForTeacher(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	view, err := c.QuizService.GetQuizForTeacher(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
