package model

import "time"

// Enrollment 选课记录。completed 在每次进度上报后重算，
// 非单调：课时数据变化后可能从 true 回退为 false。
// swagger:model Enrollment
type Enrollment struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID  uint      `gorm:"uniqueIndex:idx_enroll_student_course;not null" json:"studentId"`
	Student    Student   `gorm:"foreignKey:StudentID" json:"student"`
	CourseID   uint      `gorm:"uniqueIndex:idx_enroll_student_course;not null" json:"courseId"`
	Course     Course    `gorm:"foreignKey:CourseID" json:"course"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolledAt"`
	Completed  bool      `gorm:"default:false" json:"completed"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
