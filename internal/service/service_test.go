package service

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testEnv 一套接好数据库的全量 service，缓存关闭
type testEnv struct {
	db *gorm.DB

	teacherRepo      *repository.TeacherRepository
	studentRepo      *repository.StudentRepository
	courseRepo       *repository.CourseRepository
	enrollmentRepo   *repository.EnrollmentRepository
	progressRepo     *repository.ProgressRepository
	certificateRepo  *repository.CertificateRepository
	quizRepo         *repository.QuizRepository
	messageRepo      *repository.MessageRepository
	notificationRepo *repository.NotificationRepository
	orderRepo        *repository.OrderRepository
	reviewRepo       *repository.ReviewRepository

	auth         *AuthService
	course       *CourseService
	progress     *ProgressService
	certificate  *CertificateService
	quiz         *QuizService
	messaging    *MessagingService
	notification *NotificationService
	payment      *PaymentService
	review       *ReviewService
	analytics    *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	e := &testEnv{
		db:               db,
		teacherRepo:      repository.NewTeacherRepository(db),
		studentRepo:      repository.NewStudentRepository(db),
		courseRepo:       repository.NewCourseRepository(db),
		enrollmentRepo:   repository.NewEnrollmentRepository(db),
		progressRepo:     repository.NewProgressRepository(db),
		certificateRepo:  repository.NewCertificateRepository(db),
		quizRepo:         repository.NewQuizRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		orderRepo:        repository.NewOrderRepository(db),
		reviewRepo:       repository.NewReviewRepository(db),
	}

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Payment.CheckoutBaseURL = "http://localhost/checkout"

	e.auth = NewAuthService(e.teacherRepo, e.studentRepo, cfg)
	e.course = NewCourseService(e.courseRepo, e.enrollmentRepo, nil)
	e.progress = NewProgressService(db, e.courseRepo, e.enrollmentRepo, e.progressRepo, e.certificateRepo, e.studentRepo, e.quizRepo)
	e.certificate = NewCertificateService(e.certificateRepo)
	e.quiz = NewQuizService(db, e.quizRepo, e.courseRepo, e.enrollmentRepo)
	e.messaging = NewMessagingService(db, e.messageRepo, e.notificationRepo, e.courseRepo, e.enrollmentRepo, e.teacherRepo, e.studentRepo)
	e.notification = NewNotificationService(e.notificationRepo)
	e.payment = NewPaymentService(db, e.orderRepo, e.courseRepo, e.enrollmentRepo, cfg)
	e.review = NewReviewService(db, e.reviewRepo, e.courseRepo, e.enrollmentRepo)
	e.analytics = NewAnalyticsService(e.orderRepo, e.courseRepo, e.enrollmentRepo, e.reviewRepo, nil)

	return e
}

func (e *testEnv) createTeacher(t *testing.T, name string) *model.Teacher {
	t.Helper()
	teacher := &model.Teacher{
		FullName: name,
		Email:    strings.ToLower(name) + "@test.local",
		Password: "hashed",
	}
	if err := e.teacherRepo.Create(teacher); err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	return teacher
}

func (e *testEnv) createStudent(t *testing.T, name string) *model.Student {
	t.Helper()
	student := &model.Student{
		FullName: name,
		Email:    strings.ToLower(name) + "@test.local",
		Password: "hashed",
	}
	if err := e.studentRepo.Create(student); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return student
}

func (e *testEnv) createCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

// createCourse 一门课一个章节，每个时长对应一个课时。时长 0 表示未知。
func (e *testEnv) createCourse(t *testing.T, teacherID uint, price float64, durations ...int) (*model.Course, []model.Lesson) {
	t.Helper()

	category := e.createCategory(t, fmt.Sprintf("cat-%s-%d", t.Name(), teacherID))
	course := &model.Course{
		TeacherID:  teacherID,
		CategoryID: category.ID,
		Title:      "测试课程",
		Price:      price,
	}
	if err := e.courseRepo.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	section := &model.Section{CourseID: course.ID, Title: "第一章", Order: 1}
	if err := e.courseRepo.CreateSection(section); err != nil {
		t.Fatalf("create section: %v", err)
	}

	lessons := make([]model.Lesson, 0, len(durations))
	for i, d := range durations {
		lesson := model.Lesson{
			SectionID: section.ID,
			Title:     fmt.Sprintf("课时 %d", i+1),
			Order:     i + 1,
		}
		if d > 0 {
			dd := d
			lesson.DurationSeconds = &dd
		}
		if err := e.courseRepo.CreateLesson(&lesson); err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		lessons = append(lessons, lesson)
	}
	return course, lessons
}

func (e *testEnv) enroll(t *testing.T, studentID, courseID uint) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := e.enrollmentRepo.Create(enrollment); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	return enrollment
}

// createQuiz 为课程建一个测验，每题两个选项，第一个是正确答案
func (e *testEnv) createQuiz(t *testing.T, courseID uint, passMark, questions int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{CourseID: courseID, Title: "测验", PassMark: passMark}
	if err := e.quizRepo.Create(quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	for i := 0; i < questions; i++ {
		question := &model.Question{
			QuizID:       quiz.ID,
			QuestionText: fmt.Sprintf("第 %d 题", i+1),
			Order:        i + 1,
			Options: []model.Option{
				{OptionText: "正确", IsCorrect: true},
				{OptionText: "错误"},
			},
		}
		if err := e.quizRepo.CreateQuestion(question); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	return quiz
}

// reloadQuiz 带题目与选项重新加载
func (e *testEnv) reloadQuiz(t *testing.T, quizID uint) *model.Quiz {
	t.Helper()
	quiz, err := e.quizRepo.FindByID(quizID)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	return quiz
}
