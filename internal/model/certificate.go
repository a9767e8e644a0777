package model

import (
	"fmt"
	"time"
)

// Certificate 结业证书。(student, course) 唯一索引是幂等发放的最终仲裁，
// service 层的存在性预检只是快路径。
// swagger:model Certificate
type Certificate struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"uniqueIndex:idx_cert_student_course;not null" json:"studentId"`
	Student   Student   `gorm:"foreignKey:StudentID" json:"student"`
	CourseID  uint      `gorm:"uniqueIndex:idx_cert_student_course;not null" json:"courseId"`
	Course    Course    `gorm:"foreignKey:CourseID" json:"course"`
	TeacherID uint      `gorm:"index;not null" json:"teacherId"`
	Teacher   Teacher   `gorm:"foreignKey:TeacherID" json:"teacher"`
	Code      string    `gorm:"size:100;unique;not null" json:"code"`
	IssuedAt  time.Time `gorm:"autoCreateTime" json:"issuedAt"`
	IsValid   bool      `gorm:"default:true" json:"isValid"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// CertificateCode 证书编号，格式 CERT-{课程ID}-{学生ID}-{YYYYMMDD}
func CertificateCode(courseID, studentID uint, issuedAt time.Time) string {
	return fmt.Sprintf("CERT-%d-%d-%s", courseID, studentID, issuedAt.Format("20060102"))
}
