package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const courseListCacheTTL = 5 * time.Minute

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Redis          *redis.Client // 可为 nil，缓存关闭时直读数据库
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Redis:          rdb,
	}
}

// CourseListResult 公共课程列表响应
type CourseListResult struct {
	Courses []model.Course `json:"courses"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

func courseListCacheKey(f repository.CourseFilter) string {
	return fmt.Sprintf("courses:list:c%d:t%d:l%s:k%s:p%d:s%d",
		f.CategoryID, f.TeacherID, f.Level, f.Keyword, f.Page, f.PageSize)
}

// ListCourses 公共课程浏览。列表走短 TTL 缓存，缓存不可用时静默降级为直读。
func (s *CourseService) ListCourses(ctx context.Context, filter repository.CourseFilter) (*CourseListResult, error) {
	key := courseListCacheKey(filter)

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var result CourseListResult
			if json.Unmarshal([]byte(cached), &result) == nil {
				return &result, nil
			}
		}
	}

	courses, total, err := s.CourseRepo.List(filter)
	if err != nil {
		return nil, err
	}

	result := &CourseListResult{
		Courses: courses,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.PageSize,
	}

	if s.Redis != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.Redis.Set(ctx, key, data, courseListCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache course list", zap.Error(err))
			}
		}
	}

	return result, nil
}

// invalidateListCache 课程写操作后清掉列表缓存
func (s *CourseService) invalidateListCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, "courses:list:*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithContent(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	// 浏览计数尽力而为，失败不影响响应
	if err := s.CourseRepo.IncrementViews(id); err != nil {
		logger.Log.Warn("Failed to increment course views", zap.Uint("courseId", id), zap.Error(err))
	}
	return course, nil
}

func (s *CourseService) ListCategories() ([]model.Category, error) {
	return s.CourseRepo.ListCategories()
}

// 教师侧课程管理

// requireOwnership 课程必须存在且归属该教师，否则按 NotFound 处理，
// 不向非属主暴露课程是否存在。
func (s *CourseService) requireOwnership(courseID, teacherID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, util.ErrNotCourseOwner
	}
	return course, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, course *model.Course) error {
	if _, err := s.CourseRepo.FindCategoryByID(course.CategoryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCourseNotFound
		}
		return err
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, teacherID uint, course *model.Course) error {
	existing, err := s.requireOwnership(course.ID, teacherID)
	if err != nil {
		return err
	}

	existing.Title = course.Title
	existing.Description = course.Description
	existing.CategoryID = course.CategoryID
	existing.Level = course.Level
	existing.Price = course.Price
	existing.DiscountPrice = course.DiscountPrice
	existing.Language = course.Language
	if course.FeaturedImg != "" {
		existing.FeaturedImg = course.FeaturedImg
	}

	if err := s.CourseRepo.Update(existing); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, teacherID, courseID uint) error {
	if _, err := s.requireOwnership(courseID, teacherID); err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *CourseService) ListTeacherCourses(teacherID uint) ([]model.Course, int64, error) {
	return s.CourseRepo.List(repository.CourseFilter{TeacherID: teacherID, PageSize: 100})
}

// 章节管理

func (s *CourseService) CreateSection(teacherID uint, section *model.Section) error {
	if _, err := s.requireOwnership(section.CourseID, teacherID); err != nil {
		return err
	}
	return s.CourseRepo.CreateSection(section)
}

func (s *CourseService) UpdateSection(teacherID, sectionID uint, title string, order int) (*model.Section, error) {
	section, err := s.CourseRepo.FindSectionByID(sectionID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOwnership(section.CourseID, teacherID); err != nil {
		return nil, err
	}

	section.Title = title
	section.Order = order
	return section, s.CourseRepo.UpdateSection(section)
}

func (s *CourseService) DeleteSection(teacherID, sectionID uint) error {
	section, err := s.CourseRepo.FindSectionByID(sectionID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if _, err := s.requireOwnership(section.CourseID, teacherID); err != nil {
		return err
	}
	return s.CourseRepo.DeleteSection(sectionID)
}

// 课时管理

func (s *CourseService) CreateLesson(teacherID uint, lesson *model.Lesson) error {
	section, err := s.CourseRepo.FindSectionByID(lesson.SectionID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if _, err := s.requireOwnership(section.CourseID, teacherID); err != nil {
		return err
	}
	return s.CourseRepo.CreateLesson(lesson)
}

func (s *CourseService) UpdateLesson(teacherID uint, lesson *model.Lesson) (*model.Lesson, error) {
	existing, err := s.CourseRepo.FindLessonByID(lesson.ID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	section, err := s.CourseRepo.FindSectionByID(existing.SectionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireOwnership(section.CourseID, teacherID); err != nil {
		return nil, err
	}

	existing.Title = lesson.Title
	existing.Description = lesson.Description
	existing.Order = lesson.Order
	if lesson.VideoURL != "" {
		existing.VideoURL = lesson.VideoURL
	}
	if lesson.DurationSeconds != nil {
		existing.DurationSeconds = lesson.DurationSeconds
	}
	return existing, s.CourseRepo.UpdateLesson(existing)
}

func (s *CourseService) DeleteLesson(teacherID, lessonID uint) error {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrLessonNotFound
	}
	if err != nil {
		return err
	}
	section, err := s.CourseRepo.FindSectionByID(lesson.SectionID)
	if err != nil {
		return err
	}
	if _, err := s.requireOwnership(section.CourseID, teacherID); err != nil {
		return err
	}
	return s.CourseRepo.DeleteLesson(lessonID)
}
