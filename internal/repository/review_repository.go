package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// Find 学生对课程的评价，不存在返回 (nil, nil)
func (r *ReviewRepository) Find(tx *gorm.DB, courseID, studentID uint) (*model.Review, error) {
	var review model.Review
	err := tx.Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&review).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Save(tx *gorm.DB, review *model.Review) error {
	return tx.Save(review).Error
}

func (r *ReviewRepository) ListByCourse(courseID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.DB.Preload("Student").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// Stats 课程评分均值与条数
func (r *ReviewRepository) Stats(tx *gorm.DB, courseID uint) (float64, int64, error) {
	type agg struct {
		Avg   float64
		Total int64
	}
	var result agg
	err := tx.Model(&model.Review{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(id) AS total").
		Scan(&result).Error
	return result.Avg, result.Total, err
}
