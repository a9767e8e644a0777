package repository

import (
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindLessonProgress 事务内查询单条台账记录，不存在返回 (nil, nil)
func (r *ProgressRepository) FindLessonProgress(tx *gorm.DB, studentID, lessonID uint) (*model.LessonProgress, error) {
	var lp model.LessonProgress
	err := tx.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&lp).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lp, nil
}

func (r *ProgressRepository) SaveLessonProgress(tx *gorm.DB, lp *model.LessonProgress) error {
	return tx.Save(lp).Error
}

// LessonProgressByStudent 指定课时集合内该学生的全部台账记录
func (r *ProgressRepository) LessonProgressByStudent(tx *gorm.DB, studentID uint, lessonIDs []uint) ([]model.LessonProgress, error) {
	var records []model.LessonProgress
	if len(lessonIDs) == 0 {
		return records, nil
	}
	err := tx.Where("student_id = ? AND lesson_id IN ?", studentID, lessonIDs).
		Find(&records).Error
	return records, err
}

// CountCompleted 该学生在课时集合内已完成的条数
func (r *ProgressRepository) CountCompleted(tx *gorm.DB, studentID uint, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := tx.Model(&model.LessonProgress{}).
		Where("student_id = ? AND lesson_id IN ? AND completed = ?", studentID, lessonIDs, true).
		Count(&count).Error
	return count, err
}

// UpsertCourseProgress 写入课程级进度缓存
func (r *ProgressRepository) UpsertCourseProgress(tx *gorm.DB, studentID, courseID uint, overall float64) error {
	var cp model.CourseProgress
	err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&cp).Error
	if err == gorm.ErrRecordNotFound {
		cp = model.CourseProgress{
			StudentID:       studentID,
			CourseID:        courseID,
			OverallProgress: overall,
		}
		return tx.Create(&cp).Error
	}
	if err != nil {
		return err
	}
	cp.OverallProgress = overall
	return tx.Save(&cp).Error
}

func (r *ProgressRepository) FindCourseProgress(studentID, courseID uint) (*model.CourseProgress, error) {
	var cp model.CourseProgress
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&cp).Error
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// CourseProgressByCourse 课程下全部学生的进度缓存，教师分析视图用
func (r *ProgressRepository) CourseProgressByCourse(courseID uint) ([]model.CourseProgress, error) {
	var records []model.CourseProgress
	err := r.DB.Where("course_id = ?", courseID).Find(&records).Error
	return records, err
}

// CountActiveSince 课程下 last_access 晚于阈值的学生数
func (r *ProgressRepository) CountActiveSince(courseID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseProgress{}).
		Where("course_id = ? AND last_access >= ?", courseID, since).
		Count(&count).Error
	return count, err
}
