package model

import "time"

// Notification 站内通知，广播消息的旁路产物，生命周期与消息无关。
// swagger:model Notification
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"index:idx_notif_student_read;not null" json:"studentId"`
	CourseID  *uint     `gorm:"index" json:"courseId"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"default:false;index:idx_notif_student_read" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
