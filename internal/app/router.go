package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.POST("/auth/teacher/register", c.auth.RegisterTeacher)
		public.POST("/auth/teacher/login", c.auth.LoginTeacher)
		public.POST("/auth/student/register", c.auth.RegisterStudent)
		public.POST("/auth/student/login", c.auth.LoginStudent)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
		public.GET("/courses/:id/reviews", c.course.ListCourseReviews)
		public.GET("/categories", c.course.ListCategories)
		public.GET("/teachers/:id", c.course.GetTeacherPage)

		public.GET("/certificates/verify/:code", c.certificate.VerifyCertificate)
	}

	// 需要登录的通用路由
	auth := router.Group("/api")
	auth.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		auth.GET("/profile", c.auth.GetProfile)
		auth.PUT("/profile", c.auth.UpdateProfile)
		auth.PUT("/profile/password", c.auth.ChangePassword)
		auth.POST("/uploads/image", c.course.UploadImage)

		auth.GET("/conversations", c.message.ListConversations)
		auth.POST("/conversations", c.message.StartPrivateChat)
		auth.GET("/conversations/unread", c.message.UnreadCount)
		auth.GET("/conversations/:id", c.message.GetConversation)
		auth.POST("/conversations/:id/messages", c.message.SendMessage)
		auth.PUT("/conversations/:id/read", c.message.MarkRead)
	}

	// 学生端
	student := router.Group("/api/student")
	student.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RequireStudent())
	{
		student.GET("/enrollments", c.payment.ListMyEnrollments)
		student.POST("/orders", c.payment.CreateOrder)
		student.GET("/orders", c.payment.ListMyOrders)
		student.POST("/orders/:id/confirm", c.payment.ConfirmPayment)

		student.POST("/progress", c.progress.SubmitProgress)
		student.GET("/courses/:id/content", c.progress.GetCourseContent)
		student.POST("/courses/:id/reviews", c.payment.SubmitReview)

		student.GET("/courses/:id/quizzes", c.quiz.ListQuizzes)
		student.GET("/quizzes/:id", c.quiz.GetQuiz)
		student.POST("/quizzes/:id/attempts", c.quiz.SubmitAttempt)
		student.GET("/quizzes/:id/attempts", c.quiz.ListMyAttempts)

		student.GET("/certificates", c.certificate.ListMyCertificates)
		student.GET("/certificates/:id", c.certificate.GetCertificate)

		student.GET("/notifications", c.notification.ListNotifications)
		student.GET("/notifications/unread", c.notification.UnreadCount)
		student.PUT("/notifications/:id/read", c.notification.MarkRead)
		student.PUT("/notifications/read-all", c.notification.MarkAllRead)
	}

	// 教师端
	teacher := router.Group("/api/teacher")
	teacher.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RequireTeacher())
	{
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.GET("/courses", c.course.ListMyCourses)
		teacher.PUT("/courses/:id", c.course.UpdateCourse)
		teacher.DELETE("/courses/:id", c.course.DeleteCourse)

		teacher.POST("/sections", c.course.CreateSection)
		teacher.PUT("/sections/:id", c.course.UpdateSection)
		teacher.DELETE("/sections/:id", c.course.DeleteSection)

		teacher.POST("/lessons", c.course.CreateLesson)
		teacher.PUT("/lessons/:id", c.course.UpdateLesson)
		teacher.DELETE("/lessons/:id", c.course.DeleteLesson)
		teacher.POST("/uploads/video", c.course.UploadLessonVideo)

		teacher.POST("/quizzes", c.quiz.CreateQuiz)
		teacher.GET("/quizzes/:id", c.quiz.GetQuizForTeacher)
		teacher.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		teacher.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		teacher.POST("/questions", c.quiz.AddQuestion)
		teacher.DELETE("/questions/:id", c.quiz.DeleteQuestion)

		teacher.GET("/courses/:id/students", c.progress.CourseStudents)
		teacher.GET("/courses/:id/students/:studentId", c.progress.StudentDetail)
		teacher.GET("/courses/:id/analytics", c.progress.CourseAnalytics)
		teacher.POST("/courses/:id/broadcast", c.message.Broadcast)

		teacher.GET("/analytics/revenue", c.analytics.RevenueSummary)
		teacher.GET("/analytics/courses", c.analytics.CoursePerformance)
	}
}
