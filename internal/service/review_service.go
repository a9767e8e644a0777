package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type ReviewService struct {
	DB             *gorm.DB
	ReviewRepo     *repository.ReviewRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewReviewService(db *gorm.DB, reviewRepo *repository.ReviewRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *ReviewService {
	return &ReviewService{
		DB:             db,
		ReviewRepo:     reviewRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// SubmitReview 评价按 (课程, 学生) 幂等覆盖，评分统计同事务刷新到课程
func (s *ReviewService) SubmitReview(studentID, courseID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, util.ErrRatingOutOfRange
	}

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	var review *model.Review
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.ReviewRepo.Find(tx, courseID, studentID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing = &model.Review{CourseID: courseID, StudentID: studentID}
		}
		existing.Rating = rating
		existing.Comment = comment
		if err := s.ReviewRepo.Save(tx, existing); err != nil {
			return err
		}
		review = existing

		avg, total, err := s.ReviewRepo.Stats(tx, courseID)
		if err != nil {
			return err
		}
		return s.CourseRepo.UpdateRatingStats(tx, courseID, avg, int(total))
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListCourseReviews(courseID uint) ([]model.Review, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.ReviewRepo.ListByCourse(courseID)
}
