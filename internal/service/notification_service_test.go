package service

import (
	"errors"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

func TestNotificationMarkRead(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, _ := e.createCourse(t, teacher.ID, 0, 60)
	e.enroll(t, student.ID, course.ID)

	if _, err := e.messaging.Broadcast(teacher.ID, course.ID, "通知", "内容"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	notifs, err := e.notification.ListMyNotifications(student.ID)
	if err != nil || len(notifs) != 1 {
		t.Fatalf("notifications = %d (%v), want 1", len(notifs), err)
	}
	if n, _ := e.notification.UnreadCount(student.ID); n != 1 {
		t.Errorf("unread = %d, want 1", n)
	}

	if err := e.notification.MarkRead(student.ID, notifs[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n, _ := e.notification.UnreadCount(student.ID); n != 0 {
		t.Errorf("unread after mark = %d, want 0", n)
	}

	// 重复标记幂等
	if err := e.notification.MarkRead(student.ID, notifs[0].ID); err != nil {
		t.Errorf("repeat mark read should be idempotent, got %v", err)
	}

	// 不存在或不属于本人的通知都是 NotFound
	if err := e.notification.MarkRead(student.ID, 99999); !errors.Is(err, util.ErrNotificationNotFound) {
		t.Errorf("err = %v, want ErrNotificationNotFound", err)
	}
	other := e.createStudent(t, "other")
	if err := e.notification.MarkRead(other.ID, notifs[0].ID); !errors.Is(err, util.ErrNotificationNotFound) {
		t.Errorf("foreign notification: err = %v, want ErrNotificationNotFound", err)
	}
}

func TestNotificationMarkAllRead(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, _ := e.createCourse(t, teacher.ID, 0, 60)
	e.enroll(t, student.ID, course.ID)

	for _, content := range []string{"a", "b", "c"} {
		if _, err := e.messaging.Broadcast(teacher.ID, course.ID, "", content); err != nil {
			t.Fatalf("broadcast: %v", err)
		}
	}

	affected, err := e.notification.MarkAllRead(student.ID)
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if affected != 3 {
		t.Errorf("affected = %d, want 3", affected)
	}
	if n, _ := e.notification.UnreadCount(student.ID); n != 0 {
		t.Errorf("unread = %d, want 0", n)
	}

	var total int64
	if err := e.db.Model(&model.Notification{}).Count(&total).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 3 {
		t.Errorf("notifications must survive read marking, count = %d", total)
	}
}
