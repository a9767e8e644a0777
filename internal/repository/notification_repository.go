package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// CreateBatch 广播事务内批量写入
func (r *NotificationRepository) CreateBatch(tx *gorm.DB, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return tx.Create(&notifications).Error
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.DB.Create(notification).Error
}

func (r *NotificationRepository) ListByStudent(studentID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) CountUnread(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 只允许本人标记自己的通知，返回影响行数
func (r *NotificationRepository) MarkRead(studentID, notificationID uint) (int64, error) {
	result := r.DB.Model(&model.Notification{}).
		Where("id = ? AND student_id = ? AND is_read = ?", notificationID, studentID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) MarkAllRead(studentID uint) (int64, error) {
	result := r.DB.Model(&model.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
