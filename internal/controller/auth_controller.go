package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// TeacherRegisterRequest 教师注册请求
// swagger:model TeacherRegisterRequest
type TeacherRegisterRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	Qualification string `json:"qualification"`
	Skills        string `json:"skills"`
	Bio           string `json:"bio"`
}

// RegisterTeacher godoc
// @Summary 教师注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body TeacherRegisterRequest true "教师注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误或邮箱已被注册"
// @Router /api/auth/teacher/register [post]
func (c *AuthController) RegisterTeacher(ctx *gin.Context) {
	var req TeacherRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	teacher := &model.Teacher{
		FullName:      req.FullName,
		Email:         req.Email,
		Password:      req.Password,
		Qualification: req.Qualification,
		Skills:        req.Skills,
		Bio:           req.Bio,
	}
	if err := c.AuthService.RegisterTeacher(teacher); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": teacher.ID})
}

// StudentRegisterRequest 学生注册请求
// swagger:model StudentRegisterRequest
type StudentRegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	MobileNo string `json:"mobileNo"`
}

// RegisterStudent godoc
// @Summary 学生注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body StudentRegisterRequest true "学生注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误或邮箱已被注册"
// @Router /api/auth/student/register [post]
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	var req StudentRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student := &model.Student{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		MobileNo: req.MobileNo,
	}
	if err := c.AuthService.RegisterStudent(student); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": student.ID})
}

// LoginRequest 登录请求
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginTeacher godoc
// @Summary 教师登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 403 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/teacher/login [post]
func (c *AuthController) LoginTeacher(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, teacher, err := c.AuthService.LoginTeacher(req.Email, req.Password)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"token": token, "teacher": teacher})
}

// LoginStudent godoc
// @Summary 学生登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 403 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/student/login [post]
func (c *AuthController) LoginStudent(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, student, err := c.AuthService.LoginStudent(req.Email, req.Password)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"token": token, "student": student})
}

// GetProfile godoc
// @Summary 当前用户资料
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	switch actor.Kind {
	case model.ActorTeacher:
		teacher, err := c.AuthService.GetTeacher(actor.ID)
		if err != nil {
			util.HandleServiceError(ctx, err)
			return
		}
		util.Success(ctx, teacher)
	default:
		student, err := c.AuthService.GetStudent(actor.ID)
		if err != nil {
			util.HandleServiceError(ctx, err)
			return
		}
		util.Success(ctx, student)
	}
}

// UpdateProfileRequest 资料更新请求，按身份取用对应字段
type UpdateProfileRequest struct {
	FullName      string `json:"fullName" binding:"required"`
	Bio           string `json:"bio"`
	MobileNo      string `json:"mobileNo"`
	Qualification string `json:"qualification"`
	Skills        string `json:"skills"`
	ProfileImg    string `json:"profileImg"`
}

// UpdateProfile godoc
// @Summary 更新当前用户资料
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response
// @Router /api/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	switch actor.Kind {
	case model.ActorTeacher:
		teacher, err := c.AuthService.UpdateTeacherProfile(actor.ID, req.FullName, req.Bio, req.Qualification, req.Skills, req.ProfileImg)
		if err != nil {
			util.HandleServiceError(ctx, err)
			return
		}
		util.Success(ctx, teacher)
	default:
		student, err := c.AuthService.UpdateStudentProfile(actor.ID, req.FullName, req.Bio, req.MobileNo, req.ProfileImg)
		if err != nil {
			util.HandleServiceError(ctx, err)
			return
		}
		util.Success(ctx, student)
	}
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "旧密码错误"
// @Router /api/profile/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(actor, req.OldPassword, req.NewPassword); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"changed": true})
}
