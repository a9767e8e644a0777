package util

import (
	"errors"
	"lms_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// HandleServiceError 把 service 层的业务错误映射到稳定的 HTTP 分类，
// 未识别的错误按内部错误处理并记录日志。
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrLessonNotFound),
		errors.Is(err, ErrQuizNotFound),
		errors.Is(err, ErrStudentNotFound),
		errors.Is(err, ErrTeacherNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrCertificateNotFound),
		errors.Is(err, ErrConversationNotFound),
		errors.Is(err, ErrNotificationNotFound),
		errors.Is(err, ErrNotCourseOwner):
		NotFound(c, err.Error())
	case errors.Is(err, ErrNotEnrolled),
		errors.Is(err, ErrNotParticipant),
		errors.Is(err, ErrStudentCannotPost),
		errors.Is(err, ErrNotResourceOwner):
		Forbidden(c, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrQuizNoQuestions),
		errors.Is(err, ErrAnswersRequired),
		errors.Is(err, ErrRatingOutOfRange),
		errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrContentRequired),
		errors.Is(err, ErrNoPrivateChatPeer):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
