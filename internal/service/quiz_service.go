package service

import (
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type QuizService struct {
	DB             *gorm.DB
	QuizRepo       *repository.QuizRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *QuizService {
	return &QuizService{
		DB:             db,
		QuizRepo:       quizRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// 学生侧

// GetQuizForStudent 已选课学生的答题视图。Option.IsCorrect 不参与序列化，
// 正确答案在评分前不会出现在任何学生侧响应里。
func (s *QuizService) GetQuizForStudent(studentID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(studentID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzesForStudent(studentID, courseID uint) ([]model.Quiz, error) {
	enrolled, err := s.EnrollmentRepo.Exists(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	return s.QuizRepo.ListByCourse(courseID)
}

// AttemptResult 单次作答的评分结果
type AttemptResult struct {
	Attempt        *model.QuizAttempt `json:"attempt"`
	TotalQuestions int                `json:"totalQuestions"`
	CorrectAnswers int                `json:"correctAnswers"`
	Score          float64            `json:"score"` // 两位小数，仅展示
	Passed         bool               `json:"passed"`
}

// SubmitAttempt 评分并落一条只追加的作答记录。
// answers 的 key 是题目ID，value 是所选选项ID。
// 分母永远是测验的全部题目数：漏答、非法选项、张冠李戴的选项
// 一律按答错计，不报错。及格比较用原始分数，不用舍入后的展示值。
func (s *QuizService) SubmitAttempt(studentID, quizID uint, answers map[uint]uint) (*AttemptResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(studentID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	if len(quiz.Questions) == 0 {
		return nil, util.ErrQuizNoQuestions
	}
	if len(answers) == 0 {
		return nil, util.ErrAnswersRequired
	}

	correct := 0
	for _, q := range quiz.Questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		// 选项必须属于这道题，挪用别的题的选项ID不算对
		for _, opt := range q.Options {
			if opt.ID == selected && opt.IsCorrect {
				correct++
				break
			}
		}
	}

	total := len(quiz.Questions)
	rawScore := float64(correct) / float64(total) * 100
	passed := rawScore >= float64(quiz.PassMark)

	attempt := &model.QuizAttempt{
		StudentID: studentID,
		QuizID:    quizID,
		Score:     rawScore,
		Passed:    passed,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.QuizRepo.CreateAttempt(tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	monitoring.QuizAttemptsTotal.WithLabelValues(strconv.FormatBool(passed)).Inc()

	return &AttemptResult{
		Attempt:        attempt,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          util.Round2(rawScore),
		Passed:         passed,
	}, nil
}

func (s *QuizService) ListMyAttempts(studentID, quizID uint) ([]model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	enrolled, err := s.EnrollmentRepo.Exists(studentID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	return s.QuizRepo.ListAttempts(studentID, quizID)
}

// 教师侧

func (s *QuizService) requireOwnership(courseID, teacherID uint) error {
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

func (s *QuizService) CreateQuiz(teacherID uint, quiz *model.Quiz) error {
	if err := s.requireOwnership(quiz.CourseID, teacherID); err != nil {
		return err
	}
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) UpdateQuiz(teacherID, quizID uint, title, description string, passMark int) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(quiz.CourseID, teacherID); err != nil {
		return nil, err
	}

	quiz.Title = title
	quiz.Description = description
	quiz.PassMark = passMark
	return quiz, s.QuizRepo.Update(quiz)
}

func (s *QuizService) DeleteQuiz(teacherID, quizID uint) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrQuizNotFound
	}
	if err != nil {
		return err
	}
	if err := s.requireOwnership(quiz.CourseID, teacherID); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

// AddQuestion 题目连同选项一次写入
func (s *QuizService) AddQuestion(teacherID uint, question *model.Question) error {
	quiz, err := s.QuizRepo.FindByID(question.QuizID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrQuizNotFound
	}
	if err != nil {
		return err
	}
	if err := s.requireOwnership(quiz.CourseID, teacherID); err != nil {
		return err
	}
	return s.QuizRepo.CreateQuestion(question)
}

func (s *QuizService) DeleteQuestion(teacherID, questionID uint) error {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrQuizNotFound
	}
	if err != nil {
		return err
	}
	quiz, err := s.QuizRepo.FindByID(question.QuizID)
	if err != nil {
		return err
	}
	if err := s.requireOwnership(quiz.CourseID, teacherID); err != nil {
		return err
	}
	return s.QuizRepo.DeleteQuestion(questionID)
}

// GetQuizForTeacher 教师视图带正确答案标记
type TeacherQuizView struct {
	Quiz     *model.Quiz         `json:"quiz"`
	Answers  map[uint]uint       `json:"answers"` // 题目ID -> 正确选项ID
	Attempts []model.QuizAttempt `json:"attempts"`
}

func (s *QuizService) GetQuizForTeacher(teacherID, quizID uint) (*TeacherQuizView, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(quiz.CourseID, teacherID); err != nil {
		return nil, err
	}

	answers := make(map[uint]uint)
	for _, q := range quiz.Questions {
		for _, opt := range q.Options {
			if opt.IsCorrect {
				answers[q.ID] = opt.ID
				break
			}
		}
	}

	attempts, err := s.QuizRepo.ListAttemptsByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	return &TeacherQuizView{Quiz: quiz, Answers: answers, Attempts: attempts}, nil
}
