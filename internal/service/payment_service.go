package service

import (
	"fmt"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB             *gorm.DB
	OrderRepo      *repository.OrderRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Cfg            *config.Config
}

func NewPaymentService(db *gorm.DB, orderRepo *repository.OrderRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, cfg *config.Config) *PaymentService {
	return &PaymentService{
		DB:             db,
		OrderRepo:      orderRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Cfg:            cfg,
	}
}

// CheckoutInfo 下单响应：模拟收银台地址
type CheckoutInfo struct {
	Order       *model.Order `json:"order"`
	CheckoutURL string       `json:"checkoutUrl"`
}

// CreateOrder 下单。免费课程直接建已支付订单并选课；
// 已有未支付订单时复用，不重复建单。
func (s *PaymentService) CreateOrder(studentID, courseID uint) (*CheckoutInfo, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.Exists(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	existing, err := s.OrderRepo.Find(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.PaymentStatus == model.PaymentPending {
		return &CheckoutInfo{Order: existing, CheckoutURL: s.checkoutURL(existing)}, nil
	}

	amount := course.EffectivePrice()

	order := &model.Order{
		StudentID:     studentID,
		CourseID:      courseID,
		Amount:        amount,
		PaymentStatus: model.PaymentPending,
		PaymentMethod: "mock",
		TransactionID: uuid.NewString(),
	}

	// 免费课程跳过收银台，一个事务里落单并选课
	if amount == 0 {
		order.PaymentStatus = model.PaymentPaid
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(order).Error; err != nil {
				return err
			}
			return s.enrollTx(tx, studentID, courseID)
		})
		if err != nil {
			return nil, err
		}
		return &CheckoutInfo{Order: order}, nil
	}

	if err := s.OrderRepo.Create(order); err != nil {
		return nil, err
	}
	return &CheckoutInfo{Order: order, CheckoutURL: s.checkoutURL(order)}, nil
}

func (s *PaymentService) checkoutURL(order *model.Order) string {
	return fmt.Sprintf("%s?order_id=%d&transaction_id=%s", s.Cfg.Payment.CheckoutBaseURL, order.ID, order.TransactionID)
}

// ConfirmMockPayment 模拟支付回调：置订单已支付并选课，同一事务。
// 重复确认是幂等的。
func (s *PaymentService) ConfirmMockPayment(studentID, orderID uint) (*model.Order, error) {
	order, err := s.OrderRepo.FindByID(orderID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.StudentID != studentID {
		return nil, util.ErrOrderNotFound
	}

	if order.PaymentStatus == model.PaymentPaid {
		return order, nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order.PaymentStatus = model.PaymentPaid
		if err := s.OrderRepo.Save(tx, order); err != nil {
			return err
		}
		return s.enrollTx(tx, studentID, order.CourseID)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Mock payment confirmed",
		zap.Uint("orderId", order.ID),
		zap.Uint("studentId", studentID),
		zap.Uint("courseId", order.CourseID))

	return order, nil
}

// enrollTx 选课 + 课程报名计数，已选课时静默跳过
func (s *PaymentService) enrollTx(tx *gorm.DB, studentID, courseID uint) error {
	var count int64
	err := tx.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}
	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := tx.Create(enrollment).Error; err != nil {
		return err
	}
	return tx.Model(&model.Course{}).Where("id = ?", courseID).
		UpdateColumn("total_enrollments", gorm.Expr("total_enrollments + 1")).Error
}

func (s *PaymentService) ListMyOrders(studentID uint) ([]model.Order, error) {
	return s.OrderRepo.ListByStudent(studentID)
}

// ListMyEnrollments 我的课程，附带进度缓存
func (s *PaymentService) ListMyEnrollments(studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(studentID)
}
