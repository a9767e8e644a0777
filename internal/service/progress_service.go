package service

import (
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	DB              *gorm.DB
	CourseRepo      *repository.CourseRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	ProgressRepo    *repository.ProgressRepository
	CertificateRepo *repository.CertificateRepository
	StudentRepo     *repository.StudentRepository
	QuizRepo        *repository.QuizRepository
}

func NewProgressService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	certificateRepo *repository.CertificateRepository,
	studentRepo *repository.StudentRepository,
	quizRepo *repository.QuizRepository,
) *ProgressService {
	return &ProgressService{
		DB:              db,
		CourseRepo:      courseRepo,
		EnrollmentRepo:  enrollmentRepo,
		ProgressRepo:    progressRepo,
		CertificateRepo: certificateRepo,
		StudentRepo:     studentRepo,
		QuizRepo:        quizRepo,
	}
}

// SubmitProgressResult 单次进度上报的完整结果
type SubmitProgressResult struct {
	LessonProgress    *model.LessonProgress `json:"lessonProgress"`
	CourseProgress    float64               `json:"courseProgress"`
	CourseCompleted   bool                  `json:"courseCompleted"`
	CertificateIssued bool                  `json:"certificateIssued"`
	Certificate       *model.Certificate    `json:"certificate,omitempty"`
}

// SubmitLessonProgress 进度上报的核心入口。
// 台账覆盖更新、课程完成重算、证书首次发放在同一个事务里完成：
// 证书发放条件是本事务内观察到 completed 从 false 翻到 true，
// 并发提交下 (student, course) 唯一索引兜底保证最多一张。
func (s *ProgressService) SubmitLessonProgress(studentID, lessonID uint, watchedSeconds int, completedHint bool) (*SubmitProgressResult, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	courseID, err := s.CourseRepo.CourseIDOfLesson(lesson.ID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.Find(studentID, courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	result := &SubmitProgressResult{}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		lp, err := s.ProgressRepo.FindLessonProgress(tx, studentID, lesson.ID)
		if err != nil {
			return err
		}
		if lp == nil {
			lp = &model.LessonProgress{
				StudentID: studentID,
				LessonID:  lesson.ID,
			}
		}

		lp.WatchedSeconds = watchedSeconds
		// 完成判定：显式标记完成，或时长已知且观看时长达到全长
		lp.Completed = completedHint ||
			(lesson.DurationSeconds != nil && *lesson.DurationSeconds > 0 && watchedSeconds >= *lesson.DurationSeconds)

		if err := s.ProgressRepo.SaveLessonProgress(tx, lp); err != nil {
			return err
		}
		result.LessonProgress = lp

		overall, courseCompleted, err := s.recomputeTx(tx, studentID, courseID)
		if err != nil {
			return err
		}
		result.CourseProgress = overall
		result.CourseCompleted = courseCompleted

		wasCompleted := enrollment.Completed
		if courseCompleted != wasCompleted {
			if err := s.EnrollmentRepo.SetCompleted(tx, enrollment.ID, courseCompleted); err != nil {
				return err
			}
			enrollment.Completed = courseCompleted
		}

		// 只在本事务内观察到 false -> true 时发证
		if courseCompleted && !wasCompleted {
			cert, issued, err := s.issueCertificateTx(tx, studentID, courseID)
			if err != nil {
				return err
			}
			result.CertificateIssued = issued
			result.Certificate = cert
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CertificateIssued {
		monitoring.CertificatesIssued.Inc()
		logger.Log.Info("Certificate issued",
			zap.Uint("studentId", studentID),
			zap.Uint("courseId", courseID),
			zap.String("code", result.Certificate.Code))
	}

	return result, nil
}

// recomputeTx 重算课程级进度并刷新缓存行。
// 整体进度 = 各课时百分比的算术平均（不按时长加权）；
// 完成 = 已完成课时数等于课时总数且总数大于零。
func (s *ProgressService) recomputeTx(tx *gorm.DB, studentID, courseID uint) (float64, bool, error) {
	lessonIDs, err := s.CourseRepo.LessonIDs(tx, courseID)
	if err != nil {
		return 0, false, err
	}
	if len(lessonIDs) == 0 {
		// 没有课时的课程永远不算完成
		if err := s.ProgressRepo.UpsertCourseProgress(tx, studentID, courseID, 0); err != nil {
			return 0, false, err
		}
		return 0, false, nil
	}

	var lessons []model.Lesson
	if err := tx.Where("id IN ?", lessonIDs).Find(&lessons).Error; err != nil {
		return 0, false, err
	}

	records, err := s.ProgressRepo.LessonProgressByStudent(tx, studentID, lessonIDs)
	if err != nil {
		return 0, false, err
	}
	byLesson := make(map[uint]*model.LessonProgress, len(records))
	for i := range records {
		byLesson[records[i].LessonID] = &records[i]
	}

	var sum float64
	completedCount := 0
	for i := range lessons {
		lp := byLesson[lessons[i].ID]
		if lp == nil {
			continue
		}
		sum += lessons[i].ProgressPercent(lp.WatchedSeconds, lp.Completed)
		if lp.Completed {
			completedCount++
		}
	}

	overall := sum / float64(len(lessons))
	completed := completedCount == len(lessons)

	if err := s.ProgressRepo.UpsertCourseProgress(tx, studentID, courseID, overall); err != nil {
		return 0, false, err
	}
	return overall, completed, nil
}

// issueCertificateTx 幂等发证：存在性预检是快路径，唯一索引是最终仲裁。
// issued 为 false 表示证书已存在，本次未新发。
func (s *ProgressService) issueCertificateTx(tx *gorm.DB, studentID, courseID uint) (*model.Certificate, bool, error) {
	exists, err := s.CertificateRepo.Exists(tx, studentID, courseID)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}

	var course model.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return nil, false, err
	}

	now := time.Now()
	cert := &model.Certificate{
		StudentID: studentID,
		CourseID:  courseID,
		TeacherID: course.TeacherID,
		Code:      model.CertificateCode(courseID, studentID, now),
		IssuedAt:  now,
		IsValid:   true,
	}
	if err := s.CertificateRepo.Create(tx, cert); err != nil {
		return nil, false, err
	}
	return cert, true, nil
}

// 学生侧课程内容视图

// LessonView 课时 + 该学生的进度
type LessonView struct {
	model.Lesson
	WatchedSeconds  int     `json:"watchedSeconds"`
	Completed       bool    `json:"completed"`
	ProgressPercent float64 `json:"progressPercent"`
}

type SectionView struct {
	ID      uint         `json:"id"`
	Title   string       `json:"title"`
	Order   int          `json:"order"`
	Lessons []LessonView `json:"lessons"`
}

type CourseContentView struct {
	Course          *model.Course `json:"course"`
	Sections        []SectionView `json:"sections"`
	OverallProgress float64       `json:"overallProgress"`
	Completed       bool          `json:"completed"`
}

// GetCourseContent 已选课学生的学习视图：完整目录叠加本人进度
func (s *ProgressService) GetCourseContent(studentID, courseID uint) (*CourseContentView, error) {
	enrollment, err := s.EnrollmentRepo.Find(studentID, courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	var lessonIDs []uint
	for _, sec := range course.Sections {
		for _, l := range sec.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
	}

	records, err := s.ProgressRepo.LessonProgressByStudent(s.DB, studentID, lessonIDs)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[uint]*model.LessonProgress, len(records))
	for i := range records {
		byLesson[records[i].LessonID] = &records[i]
	}

	view := &CourseContentView{
		Course:    course,
		Completed: enrollment.Completed,
	}

	var sum float64
	for _, sec := range course.Sections {
		sv := SectionView{ID: sec.ID, Title: sec.Title, Order: sec.Order}
		for _, l := range sec.Lessons {
			lv := LessonView{Lesson: l}
			if lp := byLesson[l.ID]; lp != nil {
				lv.WatchedSeconds = lp.WatchedSeconds
				lv.Completed = lp.Completed
			}
			lv.ProgressPercent = util.Round2(l.ProgressPercent(lv.WatchedSeconds, lv.Completed))
			sum += l.ProgressPercent(lv.WatchedSeconds, lv.Completed)
			sv.Lessons = append(sv.Lessons, lv)
		}
		view.Sections = append(view.Sections, sv)
	}

	if len(lessonIDs) > 0 {
		view.OverallProgress = util.Round2(sum / float64(len(lessonIDs)))
	}

	return view, nil
}

// 教师侧进度视图

// CourseStudentRow 课程学生列表行
type CourseStudentRow struct {
	Student         model.Student `json:"student"`
	EnrolledAt      time.Time     `json:"enrolledAt"`
	Completed       bool          `json:"completed"`
	OverallProgress float64       `json:"overallProgress"`
	LastAccess      *time.Time    `json:"lastAccess,omitempty"`
}

// CourseStudents 教师查看名下课程的学生进度列表
func (s *ProgressService) CourseStudents(teacherID, courseID uint) ([]CourseStudentRow, error) {
	if err := s.requireOwnership(courseID, teacherID); err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	progressRecords, err := s.ProgressRepo.CourseProgressByCourse(courseID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uint]*model.CourseProgress, len(progressRecords))
	for i := range progressRecords {
		byStudent[progressRecords[i].StudentID] = &progressRecords[i]
	}

	rows := make([]CourseStudentRow, 0, len(enrollments))
	for _, e := range enrollments {
		row := CourseStudentRow{
			Student:    e.Student,
			EnrolledAt: e.EnrolledAt,
			Completed:  e.Completed,
		}
		if cp := byStudent[e.StudentID]; cp != nil {
			row.OverallProgress = util.Round2(cp.OverallProgress)
			la := cp.LastAccess
			row.LastAccess = &la
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// StudentDetailView 教师查看单个学生在某课程的明细
type StudentDetailView struct {
	Student         model.Student       `json:"student"`
	OverallProgress float64             `json:"overallProgress"`
	Completed       bool                `json:"completed"`
	Lessons         []LessonView        `json:"lessons"`
	QuizAttempts    []model.QuizAttempt `json:"quizAttempts"`
}

func (s *ProgressService) StudentDetail(teacherID, courseID, studentID uint) (*StudentDetailView, error) {
	if err := s.requireOwnership(courseID, teacherID); err != nil {
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.Find(studentID, courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}

	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		return nil, err
	}

	var lessonIDs []uint
	var lessons []model.Lesson
	for _, sec := range course.Sections {
		for _, l := range sec.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
			lessons = append(lessons, l)
		}
	}

	records, err := s.ProgressRepo.LessonProgressByStudent(s.DB, studentID, lessonIDs)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[uint]*model.LessonProgress, len(records))
	for i := range records {
		byLesson[records[i].LessonID] = &records[i]
	}

	view := &StudentDetailView{
		Student:   *student,
		Completed: enrollment.Completed,
	}

	var sum float64
	for _, l := range lessons {
		lv := LessonView{Lesson: l}
		if lp := byLesson[l.ID]; lp != nil {
			lv.WatchedSeconds = lp.WatchedSeconds
			lv.Completed = lp.Completed
		}
		lv.ProgressPercent = util.Round2(l.ProgressPercent(lv.WatchedSeconds, lv.Completed))
		sum += l.ProgressPercent(lv.WatchedSeconds, lv.Completed)
		view.Lessons = append(view.Lessons, lv)
	}
	if len(lessons) > 0 {
		view.OverallProgress = util.Round2(sum / float64(len(lessons)))
	}

	quizzes, err := s.QuizRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	for _, q := range quizzes {
		attempts, err := s.QuizRepo.ListAttempts(studentID, q.ID)
		if err != nil {
			return nil, err
		}
		view.QuizAttempts = append(view.QuizAttempts, attempts...)
	}

	return view, nil
}

// CourseAnalyticsView 课程维度的进度分析
type CourseAnalyticsView struct {
	TotalStudents     int64          `json:"totalStudents"`
	CompletedStudents int64          `json:"completedStudents"`
	CompletionRate    float64        `json:"completionRate"` // 百分比
	AverageProgress   float64        `json:"averageProgress"`
	ActiveLast7Days   int64          `json:"activeLast7Days"`
	ProgressBuckets   map[string]int `json:"progressBuckets"`
}

// CourseAnalytics 进度分布分桶：[0,25) [25,50) [50,75) [75,100]，
// 最高桶闭区间，100% 的学生落在 75-100。
func (s *ProgressService) CourseAnalytics(teacherID, courseID uint) (*CourseAnalyticsView, error) {
	if err := s.requireOwnership(courseID, teacherID); err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	progressRecords, err := s.ProgressRepo.CourseProgressByCourse(courseID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uint]*model.CourseProgress, len(progressRecords))
	for i := range progressRecords {
		byStudent[progressRecords[i].StudentID] = &progressRecords[i]
	}

	view := &CourseAnalyticsView{
		TotalStudents: int64(len(enrollments)),
		ProgressBuckets: map[string]int{
			"0-25":   0,
			"25-50":  0,
			"50-75":  0,
			"75-100": 0,
		},
	}

	var sum float64
	for _, e := range enrollments {
		if e.Completed {
			view.CompletedStudents++
		}
		var p float64
		if cp := byStudent[e.StudentID]; cp != nil {
			p = cp.OverallProgress
		}
		sum += p
		switch {
		case p < 25:
			view.ProgressBuckets["0-25"]++
		case p < 50:
			view.ProgressBuckets["25-50"]++
		case p < 75:
			view.ProgressBuckets["50-75"]++
		default:
			view.ProgressBuckets["75-100"]++
		}
	}

	if view.TotalStudents > 0 {
		view.CompletionRate = util.Round2(float64(view.CompletedStudents) / float64(view.TotalStudents) * 100)
		view.AverageProgress = util.Round2(sum / float64(view.TotalStudents))
	}

	active, err := s.ProgressRepo.CountActiveSince(courseID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	view.ActiveLast7Days = active

	return view, nil
}

func (s *ProgressService) requireOwnership(courseID, teacherID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if course.TeacherID != teacherID {
		return util.ErrNotCourseOwner
	}
	return nil
}
