package service

import (
	"errors"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

func teacherActor(id uint) model.Actor { return model.Actor{Kind: model.ActorTeacher, ID: id} }
func studentActor(id uint) model.Actor { return model.Actor{Kind: model.ActorStudent, ID: id} }

func TestStartPrivateChatGetOrCreate(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")

	conv1, err := e.messaging.StartPrivateChat(teacherActor(teacher.ID), student.ID)
	if err != nil {
		t.Fatalf("start chat: %v", err)
	}
	if conv1.IsGroup {
		t.Errorf("private chat must not be a group conversation")
	}

	// 学生从自己这边发起同一组合，拿到同一个会话
	conv2, err := e.messaging.StartPrivateChat(studentActor(student.ID), teacher.ID)
	if err != nil {
		t.Fatalf("start chat again: %v", err)
	}
	if conv1.ID != conv2.ID {
		t.Errorf("same pair must share one conversation, got %d and %d", conv1.ID, conv2.ID)
	}

	if _, err := e.messaging.StartPrivateChat(teacherActor(teacher.ID), 99999); !errors.Is(err, util.ErrStudentNotFound) {
		t.Errorf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestUnreadExcludesSenderAndMarkReadIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")

	conv, err := e.messaging.StartPrivateChat(teacherActor(teacher.ID), student.ID)
	if err != nil {
		t.Fatalf("start chat: %v", err)
	}

	for _, text := range []string{"你好", "课程资料已更新"} {
		if _, err := e.messaging.SendMessage(teacherActor(teacher.ID), conv.ID, text); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	// 未读只算别人发的：学生 2 条，老师自己 0 条
	if n, err := e.messaging.UnreadCount(studentActor(student.ID)); err != nil || n != 2 {
		t.Errorf("student unread = %d (%v), want 2", n, err)
	}
	if n, err := e.messaging.UnreadCount(teacherActor(teacher.ID)); err != nil || n != 0 {
		t.Errorf("sender unread = %d (%v), want 0", n, err)
	}

	cleared, err := e.messaging.MarkRead(studentActor(student.ID), conv.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if cleared != 2 {
		t.Errorf("first mark read cleared %d, want 2", cleared)
	}

	// 幂等：再标一次不影响任何行
	cleared, err = e.messaging.MarkRead(studentActor(student.ID), conv.ID)
	if err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	if cleared != 0 {
		t.Errorf("repeated mark read cleared %d, want 0", cleared)
	}

	if _, err := e.messaging.SendMessage(studentActor(student.ID), conv.ID, "收到"); err != nil {
		t.Fatalf("student reply: %v", err)
	}
	if n, _ := e.messaging.UnreadCount(teacherActor(teacher.ID)); n != 1 {
		t.Errorf("teacher unread after reply = %d, want 1", n)
	}
}

func TestSendMessageValidation(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	stranger := e.createStudent(t, "stranger")

	conv, err := e.messaging.StartPrivateChat(teacherActor(teacher.ID), student.ID)
	if err != nil {
		t.Fatalf("start chat: %v", err)
	}

	if _, err := e.messaging.SendMessage(teacherActor(teacher.ID), conv.ID, "   "); !errors.Is(err, util.ErrContentRequired) {
		t.Errorf("err = %v, want ErrContentRequired", err)
	}
	if _, err := e.messaging.SendMessage(studentActor(stranger.ID), conv.ID, "hi"); !errors.Is(err, util.ErrNotParticipant) {
		t.Errorf("err = %v, want ErrNotParticipant", err)
	}
}

func TestBroadcastCreatesMessageAndNotifications(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	course, _ := e.createCourse(t, teacher.ID, 0, 60)
	for _, name := range []string{"s1", "s2", "s3"} {
		student := e.createStudent(t, name)
		e.enroll(t, student.ID, course.ID)
	}

	result, err := e.messaging.Broadcast(teacher.ID, course.ID, "", "下周停课一次")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if result.NotificationsCreated != 3 {
		t.Errorf("notifications = %d, want 3", result.NotificationsCreated)
	}

	var msgs int64
	if err := e.db.Model(&model.Message{}).Where("conversation_id = ?", result.Message.ConversationID).Count(&msgs).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if msgs != 1 {
		t.Errorf("message count = %d, want exactly 1 per broadcast", msgs)
	}

	// 标题缺省取课程名
	var notif model.Notification
	if err := e.db.First(&notif).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if notif.Title != "测试课程" {
		t.Errorf("notification title = %q, want course title", notif.Title)
	}

	// 重复广播：不重复拉人，消息与通知各自追加
	again, err := e.messaging.Broadcast(teacher.ID, course.ID, "补充", "教室改为 302")
	if err != nil {
		t.Fatalf("second broadcast: %v", err)
	}
	if again.Message.ConversationID != result.Message.ConversationID {
		t.Errorf("broadcasts must reuse the course's group conversation")
	}

	var participants int64
	if err := e.db.Model(&model.ConversationStudent{}).
		Where("conversation_id = ?", result.Message.ConversationID).
		Count(&participants).Error; err != nil {
		t.Fatalf("count participants: %v", err)
	}
	if participants != 3 {
		t.Errorf("participant count = %d, want 3 (no duplicates)", participants)
	}

	var notifs int64
	if err := e.db.Model(&model.Notification{}).Count(&notifs).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if notifs != 6 {
		t.Errorf("notification count = %d, want 6 after two broadcasts", notifs)
	}
}

func TestBroadcastRequiresOwnership(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createTeacher(t, "owner")
	other := e.createTeacher(t, "other")
	course, _ := e.createCourse(t, owner.ID, 0, 60)

	if _, err := e.messaging.Broadcast(other.ID, course.ID, "", "hi"); !errors.Is(err, util.ErrNotCourseOwner) {
		t.Errorf("err = %v, want ErrNotCourseOwner", err)
	}
	if _, err := e.messaging.Broadcast(owner.ID, course.ID, "", "  "); !errors.Is(err, util.ErrContentRequired) {
		t.Errorf("err = %v, want ErrContentRequired", err)
	}
}

func TestStudentCannotPostInAnnouncementConversation(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, _ := e.createCourse(t, teacher.ID, 0, 60)
	e.enroll(t, student.ID, course.ID)

	result, err := e.messaging.Broadcast(teacher.ID, course.ID, "", "公告")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	_, err = e.messaging.SendMessage(studentActor(student.ID), result.Message.ConversationID, "问个问题")
	if !errors.Is(err, util.ErrStudentCannotPost) {
		t.Fatalf("err = %v, want ErrStudentCannotPost", err)
	}

	// 老师可以继续在公告会话里发言
	if _, err := e.messaging.SendMessage(teacherActor(teacher.ID), result.Message.ConversationID, "继续"); err != nil {
		t.Errorf("teacher post in group conversation: %v", err)
	}
}
