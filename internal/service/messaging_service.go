package service

import (
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type MessagingService struct {
	DB               *gorm.DB
	MessageRepo      *repository.MessageRepository
	NotificationRepo *repository.NotificationRepository
	CourseRepo       *repository.CourseRepository
	EnrollmentRepo   *repository.EnrollmentRepository
	TeacherRepo      *repository.TeacherRepository
	StudentRepo      *repository.StudentRepository
}

func NewMessagingService(
	db *gorm.DB,
	messageRepo *repository.MessageRepository,
	notificationRepo *repository.NotificationRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	teacherRepo *repository.TeacherRepository,
	studentRepo *repository.StudentRepository,
) *MessagingService {
	return &MessagingService{
		DB:               db,
		MessageRepo:      messageRepo,
		NotificationRepo: notificationRepo,
		CourseRepo:       courseRepo,
		EnrollmentRepo:   enrollmentRepo,
		TeacherRepo:      teacherRepo,
		StudentRepo:      studentRepo,
	}
}

// ConversationRow 会话列表行：最新消息 + 该身份视角的未读数
type ConversationRow struct {
	Conversation model.Conversation `json:"conversation"`
	LastMessage  *model.Message     `json:"lastMessage,omitempty"`
	UnreadCount  int64              `json:"unreadCount"`
}

func (s *MessagingService) ListConversations(actor model.Actor) ([]ConversationRow, error) {
	convs, err := s.MessageRepo.ListConversationsByActor(actor)
	if err != nil {
		return nil, err
	}

	rows := make([]ConversationRow, 0, len(convs))
	for _, conv := range convs {
		last, err := s.MessageRepo.LastMessage(conv.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.MessageRepo.CountUnread(conv.ID, actor)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ConversationRow{
			Conversation: conv,
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}
	return rows, nil
}

// UnreadCount 全部参与会话中未读且非本人发出的消息总数
func (s *MessagingService) UnreadCount(actor model.Actor) (int64, error) {
	ids, err := s.MessageRepo.ConversationIDsByActor(actor)
	if err != nil {
		return 0, err
	}
	return s.MessageRepo.CountUnreadInConversations(ids, actor)
}

// ConversationDetail 会话 + 全部消息
type ConversationDetail struct {
	Conversation *model.Conversation `json:"conversation"`
	Messages     []model.Message     `json:"messages"`
}

// GetConversation 打开会话即标记他人消息为已读
func (s *MessagingService) GetConversation(actor model.Actor, conversationID uint) (*ConversationDetail, error) {
	conv, err := s.MessageRepo.FindConversation(s.DB, conversationID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(actor) {
		return nil, util.ErrNotParticipant
	}

	if _, err := s.MessageRepo.MarkRead(conversationID, actor); err != nil {
		return nil, err
	}

	messages, err := s.MessageRepo.ListMessages(conversationID)
	if err != nil {
		return nil, err
	}
	return &ConversationDetail{Conversation: conv, Messages: messages}, nil
}

// MarkRead 幂等：第一次之后的调用返回 0
func (s *MessagingService) MarkRead(actor model.Actor, conversationID uint) (int64, error) {
	conv, err := s.MessageRepo.FindConversation(s.DB, conversationID)
	if err == gorm.ErrRecordNotFound {
		return 0, util.ErrConversationNotFound
	}
	if err != nil {
		return 0, err
	}
	if !conv.HasParticipant(actor) {
		return 0, util.ErrNotParticipant
	}
	return s.MessageRepo.MarkRead(conversationID, actor)
}

// SendMessage 发消息。群聊是课程公告会话，学生不能在里面发言。
// 新消息落库时 is_read = false，未读统计靠排除发送者身份实现
// "发送方视角即已读"。
func (s *MessagingService) SendMessage(actor model.Actor, conversationID uint, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, util.ErrContentRequired
	}

	conv, err := s.MessageRepo.FindConversation(s.DB, conversationID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(actor) {
		return nil, util.ErrNotParticipant
	}
	if conv.IsGroup && actor.IsStudent() {
		return nil, util.ErrStudentCannotPost
	}

	msg := &model.Message{
		ConversationID: conversationID,
		SenderKind:     actor.Kind,
		SenderID:       actor.ID,
		Content:        content,
		IsRead:         false,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.MessageRepo.CreateMessage(tx, msg); err != nil {
			return err
		}
		return s.MessageRepo.TouchConversation(tx, conversationID)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// StartPrivateChat 获取或创建教师与学生之间的私聊会话。
// 任一方都可以发起，对方身份由参数指定。
func (s *MessagingService) StartPrivateChat(actor model.Actor, peerID uint) (*model.Conversation, error) {
	var teacherID, studentID uint
	switch actor.Kind {
	case model.ActorTeacher:
		teacherID, studentID = actor.ID, peerID
	case model.ActorStudent:
		teacherID, studentID = peerID, actor.ID
	}
	if peerID == 0 {
		return nil, util.ErrNoPrivateChatPeer
	}

	if _, err := s.TeacherRepo.FindByID(teacherID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTeacherNotFound
		}
		return nil, err
	}
	if _, err := s.StudentRepo.FindByID(studentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	existing, err := s.MessageRepo.FindPrivateConversation(teacherID, studentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.MessageRepo.FindConversation(s.DB, existing.ID)
	}

	var conv *model.Conversation
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		conv = &model.Conversation{IsGroup: false}
		if err := s.MessageRepo.CreateConversation(tx, conv); err != nil {
			return err
		}
		if err := s.MessageRepo.AddTeacher(tx, conv.ID, teacherID); err != nil {
			return err
		}
		return s.MessageRepo.AddStudent(tx, conv.ID, studentID)
	})
	if err != nil {
		return nil, err
	}
	return s.MessageRepo.FindConversation(s.DB, conv.ID)
}

// BroadcastResult 广播结果
type BroadcastResult struct {
	Message              *model.Message `json:"message"`
	NotificationsCreated int            `json:"notificationsCreated"`
}

// Broadcast 课程公告：找到或建立课程的唯一群聊会话，把当前已选课学生
// 全部拉入（重复广播不重复加人），写入一条消息，并给每个学生各发一条
// 站内通知。整个过程一个事务。
func (s *MessagingService) Broadcast(teacherID, courseID uint, title, content string) (*BroadcastResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, util.ErrContentRequired
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, util.ErrNotCourseOwner
	}

	result := &BroadcastResult{}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		conv, err := s.MessageRepo.FindGroupConversation(tx, courseID)
		if err != nil {
			return err
		}
		if conv == nil {
			conv = &model.Conversation{CourseID: &course.ID, IsGroup: true}
			if err := s.MessageRepo.CreateConversation(tx, conv); err != nil {
				return err
			}
		}

		if err := s.MessageRepo.AddTeacher(tx, conv.ID, teacherID); err != nil {
			return err
		}

		studentIDs, err := s.EnrollmentRepo.StudentIDs(tx, courseID)
		if err != nil {
			return err
		}
		for _, sid := range studentIDs {
			if err := s.MessageRepo.AddStudent(tx, conv.ID, sid); err != nil {
				return err
			}
		}

		msg := &model.Message{
			ConversationID: conv.ID,
			SenderKind:     model.ActorTeacher,
			SenderID:       teacherID,
			Content:        content,
			IsRead:         false,
		}
		if err := s.MessageRepo.CreateMessage(tx, msg); err != nil {
			return err
		}
		if err := s.MessageRepo.TouchConversation(tx, conv.ID); err != nil {
			return err
		}
		result.Message = msg

		if title == "" {
			title = course.Title
		}
		notifications := make([]model.Notification, 0, len(studentIDs))
		for _, sid := range studentIDs {
			notifications = append(notifications, model.Notification{
				StudentID: sid,
				CourseID:  &course.ID,
				Title:     title,
				Message:   content,
			})
		}
		if err := s.NotificationRepo.CreateBatch(tx, notifications); err != nil {
			return err
		}
		result.NotificationsCreated = len(notifications)

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
