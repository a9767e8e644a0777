package repository

import (
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	return r.DB.Create(order).Error
}

func (r *OrderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.DB.Preload("Course").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Find 学生在某课程的订单，不存在返回 (nil, nil)
func (r *OrderRepository) Find(studentID, courseID uint) (*model.Order, error) {
	var order model.Order
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByStudent(studentID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Save(tx *gorm.DB, order *model.Order) error {
	return tx.Save(order).Error
}

// RevenueRow 按课程汇总的收入行
type RevenueRow struct {
	CourseID uint    `json:"courseId"`
	Title    string  `json:"title"`
	Orders   int64   `json:"orders"`
	Revenue  float64 `json:"revenue"`
}

// RevenueByCourse 教师名下各课程的已支付订单汇总
func (r *OrderRepository) RevenueByCourse(teacherID uint) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.DB.Model(&model.Order{}).
		Joins("JOIN courses ON courses.id = orders.course_id").
		Where("courses.teacher_id = ? AND orders.payment_status = ?", teacherID, model.PaymentPaid).
		Select("orders.course_id AS course_id, courses.title AS title, COUNT(orders.id) AS orders, SUM(orders.amount) AS revenue").
		Group("orders.course_id, courses.title").
		Order("revenue DESC").
		Scan(&rows).Error
	return rows, err
}

// DailyRevenueRow 按天汇总的收入行
type DailyRevenueRow struct {
	Day     string  `json:"day"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// DailyRevenue 教师近 days 天的每日收入
func (r *OrderRepository) DailyRevenue(teacherID uint, days int) ([]DailyRevenueRow, error) {
	since := time.Now().AddDate(0, 0, -days)
	var rows []DailyRevenueRow
	err := r.DB.Model(&model.Order{}).
		Joins("JOIN courses ON courses.id = orders.course_id").
		Where("courses.teacher_id = ? AND orders.payment_status = ? AND orders.updated_at >= ?",
			teacherID, model.PaymentPaid, since).
		Select("DATE(orders.updated_at) AS day, COUNT(orders.id) AS orders, SUM(orders.amount) AS revenue").
		Group("DATE(orders.updated_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

// TotalRevenue 教师全部已支付订单的总额与单数
func (r *OrderRepository) TotalRevenue(teacherID uint) (float64, int64, error) {
	type agg struct {
		Revenue float64
		Orders  int64
	}
	var result agg
	err := r.DB.Model(&model.Order{}).
		Joins("JOIN courses ON courses.id = orders.course_id").
		Where("courses.teacher_id = ? AND orders.payment_status = ?", teacherID, model.PaymentPaid).
		Select("COALESCE(SUM(orders.amount), 0) AS revenue, COUNT(orders.id) AS orders").
		Scan(&result).Error
	return result.Revenue, result.Orders, err
}
