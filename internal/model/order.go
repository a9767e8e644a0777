package model

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Order 订单，模拟支付。每个(学生, 课程)最多一单。
// swagger:model Order
type Order struct {
	BaseModel
	StudentID     uint          `gorm:"uniqueIndex:idx_order_student_course;not null" json:"studentId"`
	Student       Student       `gorm:"foreignKey:StudentID" json:"-"`
	CourseID      uint          `gorm:"uniqueIndex:idx_order_student_course;not null" json:"courseId"`
	Course        Course        `gorm:"foreignKey:CourseID" json:"course"`
	Amount        float64       `gorm:"type:decimal(10,2)" json:"amount"`
	PaymentStatus PaymentStatus `gorm:"size:20;default:'pending'" json:"paymentStatus"`
	PaymentMethod string        `gorm:"size:50;default:'mock'" json:"paymentMethod"`
	TransactionID string        `gorm:"size:255" json:"transactionId"`
}

func (Order) TableName() string {
	return "orders"
}
