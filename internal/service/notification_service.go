package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo}
}

func (s *NotificationService) ListMyNotifications(studentID uint) ([]model.Notification, error) {
	return s.NotificationRepo.ListByStudent(studentID)
}

func (s *NotificationService) UnreadCount(studentID uint) (int64, error) {
	return s.NotificationRepo.CountUnread(studentID)
}

// MarkRead 只能标记本人的通知，目标不存在或不属于本人都按 NotFound 处理
func (s *NotificationService) MarkRead(studentID, notificationID uint) error {
	affected, err := s.NotificationRepo.MarkRead(studentID, notificationID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// 已读的重复标记是幂等的，只有完全不存在才报错
		var count int64
		err := s.NotificationRepo.DB.Model(&model.Notification{}).
			Where("id = ? AND student_id = ?", notificationID, studentID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return util.ErrNotificationNotFound
		}
	}
	return nil
}

func (s *NotificationService) MarkAllRead(studentID uint) (int64, error) {
	return s.NotificationRepo.MarkAllRead(studentID)
}
