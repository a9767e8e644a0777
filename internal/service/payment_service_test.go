package service

import (
	"errors"
	"strings"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

func TestFreeCourseEnrollsImmediately(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, _ := e.createCourse(t, teacher.ID, 0, 60)

	info, err := e.payment.CreateOrder(student.ID, course.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if info.Order.PaymentStatus != model.PaymentPaid {
		t.Errorf("free order status = %s, want paid", info.Order.PaymentStatus)
	}
	if info.CheckoutURL != "" {
		t.Errorf("free course must not go through checkout, got %q", info.CheckoutURL)
	}

	enrolled, err := e.enrollmentRepo.Exists(student.ID, course.ID)
	if err != nil || !enrolled {
		t.Fatalf("student should be enrolled right away (enrolled=%v, err=%v)", enrolled, err)
	}

	var reloaded model.Course
	if err := e.db.First(&reloaded, course.ID).Error; err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if reloaded.TotalEnrollments != 1 {
		t.Errorf("total enrollments = %d, want 1", reloaded.TotalEnrollments)
	}

	// 已选课的学生不能再下单
	if _, err := e.payment.CreateOrder(student.ID, course.ID); !errors.Is(err, util.ErrAlreadyEnrolled) {
		t.Errorf("err = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestPaidCourseCheckoutAndConfirm(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, _ := e.createCourse(t, teacher.ID, 99.9, 60)

	info, err := e.payment.CreateOrder(student.ID, course.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if info.Order.PaymentStatus != model.PaymentPending {
		t.Errorf("order status = %s, want pending", info.Order.PaymentStatus)
	}
	if info.Order.Amount != 99.9 {
		t.Errorf("amount = %v, want 99.9", info.Order.Amount)
	}
	if !strings.Contains(info.CheckoutURL, "order_id=") || !strings.Contains(info.CheckoutURL, info.Order.TransactionID) {
		t.Errorf("checkout url missing order reference: %q", info.CheckoutURL)
	}

	// 支付前不选课
	if enrolled, _ := e.enrollmentRepo.Exists(student.ID, course.ID); enrolled {
		t.Fatalf("must not enroll before payment")
	}

	// 未支付重复下单：复用同一张单
	again, err := e.payment.CreateOrder(student.ID, course.ID)
	if err != nil {
		t.Fatalf("create order again: %v", err)
	}
	if again.Order.ID != info.Order.ID {
		t.Errorf("pending order should be reused, got %d and %d", info.Order.ID, again.Order.ID)
	}

	order, err := e.payment.ConfirmMockPayment(student.ID, info.Order.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if order.PaymentStatus != model.PaymentPaid {
		t.Errorf("status after confirm = %s, want paid", order.PaymentStatus)
	}
	if enrolled, _ := e.enrollmentRepo.Exists(student.ID, course.ID); !enrolled {
		t.Errorf("confirm must enroll the student")
	}

	// 幂等：再确认一次不报错也不重复选课
	if _, err := e.payment.ConfirmMockPayment(student.ID, info.Order.ID); err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	var enrollments int64
	if err := e.db.Model(&model.Enrollment{}).Count(&enrollments).Error; err != nil {
		t.Fatalf("count enrollments: %v", err)
	}
	if enrollments != 1 {
		t.Errorf("enrollment count = %d, want 1", enrollments)
	}

	// 别人的订单确认不了
	other := e.createStudent(t, "other")
	if _, err := e.payment.ConfirmMockPayment(other.ID, info.Order.ID); !errors.Is(err, util.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound for foreign order", err)
	}
}

func TestDiscountPriceUsedForOrderAmount(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, _ := e.createCourse(t, teacher.ID, 200, 60)

	discount := 150.0
	if err := e.db.Model(&model.Course{}).Where("id = ?", course.ID).
		Update("discount_price", discount).Error; err != nil {
		t.Fatalf("set discount: %v", err)
	}

	info, err := e.payment.CreateOrder(student.ID, course.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if info.Order.Amount != 150 {
		t.Errorf("amount = %v, want discount price 150", info.Order.Amount)
	}
}
