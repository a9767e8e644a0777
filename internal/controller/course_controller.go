package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	StorageService *service.StorageService
	ReviewService  *service.ReviewService
	AuthService    *service.AuthService
}

func NewCourseController(courseService *service.CourseService, storageService *service.StorageService, reviewService *service.ReviewService, authService *service.AuthService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		StorageService: storageService,
		ReviewService:  reviewService,
		AuthService:    authService,
	}
}

// ListCourses godoc
// @Summary 课程列表
// @Description 公开浏览，支持分类/级别/关键词筛选与分页
// @Tags 课程
// @Produce json
// @Param category query int false "分类ID"
// @Param level query string false "难度级别"
// @Param keyword query string false "搜索关键词"
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} util.Response{data=service.CourseListResult}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	filter := repository.CourseFilter{
		CategoryID: util.MustParseUint(ctx.Query("category")),
		Level:      ctx.Query("level"),
		Keyword:    ctx.Query("keyword"),
		Page:       util.ParsePositiveInt(ctx.Query("page"), 1),
		PageSize:   util.ParsePositiveInt(ctx.Query("limit"), 20),
	}

	result, err := c.CourseService.ListCourses(ctx.Request.Context(), filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 公开接口，返回课程、章节与课时目录
// @Tags 课程
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// ListCategories godoc
// @Summary 分类列表
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CourseController) ListCategories(ctx *gin.Context) {
	categories, err := c.CourseService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// GetTeacherPage godoc
// @Summary 教师主页
// @Description 公开接口，返回教师公开资料及其全部课程
// @Tags 课程
// @Produce json
// @Param id path int true "教师ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "教师不存在"
// @Router /api/teachers/{id} [get]
func (c *CourseController) GetTeacherPage(ctx *gin.Context) {
	teacherID := util.MustParseUint(ctx.Param("id"))

	teacher, err := c.AuthService.GetTeacher(teacherID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	courses, total, err := c.CourseService.ListTeacherCourses(teacherID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"teacher":      teacher,
		"courses":      courses,
		"totalCourses": total,
	})
}

// ListCourseReviews godoc
// @Summary 课程评价列表
// @Tags 课程
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Review}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/reviews [get]
func (c *CourseController) ListCourseReviews(ctx *gin.Context) {
	reviews, err := c.ReviewService.ListCourseReviews(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, reviews)
}

// CourseRequest 课程创建/更新请求
// swagger:model CourseRequest
type CourseRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	CategoryID    uint     `json:"categoryId" binding:"required"`
	Level         string   `json:"level"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	Language      string   `json:"language"`
	FeaturedImg   string   `json:"featuredImg"`
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 教师端-课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		TeacherID:     actor.ID,
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Level:         req.Level,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Language:      req.Language,
		FeaturedImg:   req.FeaturedImg,
	}
	if course.Level == "" {
		course.Level = "Beginner"
	}

	if err := c.CourseService.CreateCourse(ctx.Request.Context(), course); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// ListMyCourses godoc
// @Summary 我的课程（教师）
// @Tags 教师端-课程管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/courses [get]
func (c *CourseController) ListMyCourses(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)
	courses, total, err := c.CourseService.ListTeacherCourses(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courses": courses, "total": total})
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 教师端-课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在或无权限"
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Level:         req.Level,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Language:      req.Language,
		FeaturedImg:   req.FeaturedImg,
	}
	course.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.UpdateCourse(ctx.Request.Context(), actor.ID, course); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": true})
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 教师端-课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在或无权限"
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)
	if err := c.CourseService.DeleteCourse(ctx.Request.Context(), actor.ID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// SectionRequest 章节请求
type SectionRequest struct {
	CourseID uint   `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Order    int    `json:"order"`
}

// CreateSection godoc
// @Summary 创建章节
// @Tags 教师端-课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SectionRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Section}
// @Router /api/teacher/sections [post]
func (c *CourseController) CreateSection(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section := &model.Section{CourseID: req.CourseID, Title: req.Title, Order: req.Order}
	if err := c.CourseService.CreateSection(actor.ID, section); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// UpdateSection godoc
// @Summary 更新章节
// @Tags 教师端-课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response{data=model.Section}
// @Router /api/teacher/sections/{id} [put]
func (c *CourseController) UpdateSection(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req struct {
		Title string `json:"title" binding:"required"`
		Order int    `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.CourseService.UpdateSection(actor.ID, util.MustParseUint(ctx.Param("id")), req.Title, req.Order)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// DeleteSection godoc
// @Summary 删除章节
// @Tags 教师端-课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/sections/{id} [delete]
func (c *CourseController) DeleteSection(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)
	if err := c.CourseService.DeleteSection(actor.ID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// LessonRequest 课时请求
type LessonRequest struct {
	SectionID       uint   `json:"sectionId" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	VideoURL        string `json:"videoUrl"`
	DurationSeconds *int   `json:"durationSeconds"`
	Order           int    `json:"order"`
}

// CreateLesson godoc
// @Summary 创建课时
// @Tags 教师端-课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/teacher/lessons [post]
func (c *CourseController) CreateLesson(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		SectionID:       req.SectionID,
		Title:           req.Title,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		DurationSeconds: req.DurationSeconds,
		Order:           req.Order,
	}
	if err := c.CourseService.CreateLesson(actor.ID, lesson); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 教师端-课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/teacher/lessons/{id} [put]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		Title:           req.Title,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		DurationSeconds: req.DurationSeconds,
		Order:           req.Order,
	}
	lesson.ID = util.MustParseUint(ctx.Param("id"))

	updated, err := c.CourseService.UpdateLesson(actor.ID, lesson)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 教师端-课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)
	if err := c.CourseService.DeleteLesson(actor.ID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// UploadLessonVideo godoc
// @Summary 上传课时视频
// @Description 上传后自动探测视频时长，返回存储地址与 durationSeconds
// @Tags 教师端-课程管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response{data=service.UploadResult}
// @Router /api/teacher/uploads/video [post]
func (c *CourseController) UploadLessonVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	result, err := c.StorageService.UploadLessonVideo(ctx.Request.Context(), file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, result)
}

// UploadImage godoc
// @Summary 上传图片
// @Description 课程封面、头像等
// @Tags 教师端-课程管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response{data=service.UploadResult}
// @Router /api/uploads/image [post]
func (c *CourseController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	result, err := c.StorageService.UploadImage(ctx.Request.Context(), file, "images")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, result)
}
