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
)

const analyticsCacheTTL = 10 * time.Minute

// AnalyticsService 教师经营分析：收入、选课、课程表现。
// 全部是只读聚合查询，结果走短 TTL 快照缓存。
type AnalyticsService struct {
	OrderRepo      *repository.OrderRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ReviewRepo     *repository.ReviewRepository
	Redis          *redis.Client // 可为 nil
}

func NewAnalyticsService(orderRepo *repository.OrderRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, reviewRepo *repository.ReviewRepository, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{
		OrderRepo:      orderRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ReviewRepo:     reviewRepo,
		Redis:          rdb,
	}
}

// RevenueSummary 教师收入总览
type RevenueSummary struct {
	TotalRevenue  float64                      `json:"totalRevenue"`
	TotalOrders   int64                        `json:"totalOrders"`
	ByCourse      []repository.RevenueRow      `json:"byCourse"`
	DailyLast30   []repository.DailyRevenueRow `json:"dailyLast30"`
}

func (s *AnalyticsService) RevenueSummary(ctx context.Context, teacherID uint) (*RevenueSummary, error) {
	key := fmt.Sprintf("analytics:revenue:%d", teacherID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var summary RevenueSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		}
	}

	total, orders, err := s.OrderRepo.TotalRevenue(teacherID)
	if err != nil {
		return nil, err
	}
	byCourse, err := s.OrderRepo.RevenueByCourse(teacherID)
	if err != nil {
		return nil, err
	}
	daily, err := s.OrderRepo.DailyRevenue(teacherID, 30)
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{
		TotalRevenue: util.Round2(total),
		TotalOrders:  orders,
		ByCourse:     byCourse,
		DailyLast30:  daily,
	}

	if s.Redis != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.Redis.Set(ctx, key, data, analyticsCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache revenue summary", zap.Error(err))
			}
		}
	}
	return summary, nil
}

// CoursePerformanceRow 单门课程的经营表现
type CoursePerformanceRow struct {
	Course        model.Course `json:"course"`
	Enrollments   int64        `json:"enrollments"`
	AverageRating float64      `json:"averageRating"`
	TotalReviews  int          `json:"totalReviews"`
	Views         int          `json:"views"`
}

// CoursePerformance 教师名下全部课程的表现汇总
func (s *AnalyticsService) CoursePerformance(teacherID uint) ([]CoursePerformanceRow, error) {
	courses, _, err := s.CourseRepo.List(repository.CourseFilter{TeacherID: teacherID, PageSize: 100})
	if err != nil {
		return nil, err
	}

	rows := make([]CoursePerformanceRow, 0, len(courses))
	for _, course := range courses {
		enrollments, err := s.EnrollmentRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, CoursePerformanceRow{
			Course:        course,
			Enrollments:   enrollments,
			AverageRating: util.Round2(course.AverageRating),
			TotalReviews:  course.TotalReviews,
			Views:         course.Views,
		})
	}
	return rows, nil
}
