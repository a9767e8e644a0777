package util

import "errors"

// 业务错误按稳定分类暴露给调用方：NotFound / Forbidden / BadRequest / Conflict。
// controller 层用 errors.Is 映射到 HTTP 状态码，不向外泄漏内部细节。
var (
	// NotFound
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Forbidden
	ErrNotEnrolled        = errors.New("you are not enrolled in this course")
	ErrNotCourseOwner     = errors.New("course not found or you don't have permission")
	ErrNotParticipant     = errors.New("you are not a participant in this conversation")
	ErrStudentCannotPost  = errors.New("students cannot send messages in announcement conversations")
	ErrNotResourceOwner   = errors.New("you do not have permission to access this resource")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// BadRequest
	ErrQuizNoQuestions   = errors.New("quiz has no questions")
	ErrAnswersRequired   = errors.New("answers are required")
	ErrRatingOutOfRange  = errors.New("rating must be between 1 and 5")
	ErrAlreadyEnrolled   = errors.New("you are already enrolled in this course")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrContentRequired   = errors.New("content is required")
	ErrNoPrivateChatPeer = errors.New("the other participant must be specified")
)
