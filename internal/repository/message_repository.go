package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// FindConversation 带参与者，不带消息
func (r *MessageRepository) FindConversation(tx *gorm.DB, id uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := tx.Preload("Teachers.Teacher").Preload("Students.Student").
		First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversationsByActor 该身份参与的全部会话
func (r *MessageRepository) ListConversationsByActor(actor model.Actor) ([]model.Conversation, error) {
	var ids []uint
	var err error
	switch actor.Kind {
	case model.ActorTeacher:
		err = r.DB.Model(&model.ConversationTeacher{}).
			Where("teacher_id = ?", actor.ID).
			Pluck("conversation_id", &ids).Error
	case model.ActorStudent:
		err = r.DB.Model(&model.ConversationStudent{}).
			Where("student_id = ?", actor.ID).
			Pluck("conversation_id", &ids).Error
	}
	if err != nil {
		return nil, err
	}

	var convs []model.Conversation
	if len(ids) == 0 {
		return convs, nil
	}
	err = r.DB.Preload("Teachers.Teacher").Preload("Students.Student").
		Where("id IN ?", ids).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// FindGroupConversation 课程的群聊会话，不存在返回 (nil, nil)
func (r *MessageRepository) FindGroupConversation(tx *gorm.DB, courseID uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := tx.Where("course_id = ? AND is_group = ?", courseID, true).First(&conv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindPrivateConversation 教师与学生之间的私聊，不存在返回 (nil, nil)
func (r *MessageRepository) FindPrivateConversation(teacherID, studentID uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.
		Joins("JOIN conversation_teachers ct ON ct.conversation_id = conversations.id").
		Joins("JOIN conversation_students cs ON cs.conversation_id = conversations.id").
		Where("conversations.is_group = ? AND ct.teacher_id = ? AND cs.student_id = ?", false, teacherID, studentID).
		First(&conv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepository) CreateConversation(tx *gorm.DB, conv *model.Conversation) error {
	return tx.Create(conv).Error
}

// AddTeacher 加入会话，已在则不报错
func (r *MessageRepository) AddTeacher(tx *gorm.DB, conversationID, teacherID uint) error {
	var count int64
	err := tx.Model(&model.ConversationTeacher{}).
		Where("conversation_id = ? AND teacher_id = ?", conversationID, teacherID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}
	return tx.Create(&model.ConversationTeacher{
		ConversationID: conversationID,
		TeacherID:      teacherID,
	}).Error
}

// AddStudent 加入会话，已在则不报错
func (r *MessageRepository) AddStudent(tx *gorm.DB, conversationID, studentID uint) error {
	var count int64
	err := tx.Model(&model.ConversationStudent{}).
		Where("conversation_id = ? AND student_id = ?", conversationID, studentID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}
	return tx.Create(&model.ConversationStudent{
		ConversationID: conversationID,
		StudentID:      studentID,
	}).Error
}

func (r *MessageRepository) CreateMessage(tx *gorm.DB, msg *model.Message) error {
	return tx.Create(msg).Error
}

// ListMessages 会话消息，时间升序
func (r *MessageRepository) ListMessages(conversationID uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// LastMessage 会话最新一条消息，无消息返回 (nil, nil)
func (r *MessageRepository) LastMessage(conversationID uint) (*model.Message, error) {
	var msg model.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountUnread 会话内未读且不是该身份发出的消息数
func (r *MessageRepository) CountUnread(conversationID uint, actor model.Actor) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Message{}).
		Where("conversation_id = ? AND is_read = ?", conversationID, false).
		Where("NOT (sender_kind = ? AND sender_id = ?)", actor.Kind, actor.ID).
		Count(&count).Error
	return count, err
}

// CountUnreadInConversations 跨会话汇总未读数，排除该身份自己发的消息
func (r *MessageRepository) CountUnreadInConversations(conversationIDs []uint, actor model.Actor) (int64, error) {
	if len(conversationIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Message{}).
		Where("conversation_id IN ? AND is_read = ?", conversationIDs, false).
		Where("NOT (sender_kind = ? AND sender_id = ?)", actor.Kind, actor.ID).
		Count(&count).Error
	return count, err
}

// ConversationIDsByActor 该身份参与的会话ID集合
func (r *MessageRepository) ConversationIDsByActor(actor model.Actor) ([]uint, error) {
	var ids []uint
	var err error
	switch actor.Kind {
	case model.ActorTeacher:
		err = r.DB.Model(&model.ConversationTeacher{}).
			Where("teacher_id = ?", actor.ID).
			Pluck("conversation_id", &ids).Error
	case model.ActorStudent:
		err = r.DB.Model(&model.ConversationStudent{}).
			Where("student_id = ?", actor.ID).
			Pluck("conversation_id", &ids).Error
	}
	return ids, err
}

// MarkRead 把会话内他人发出的未读消息全部置已读，返回影响行数
func (r *MessageRepository) MarkRead(conversationID uint, actor model.Actor) (int64, error) {
	result := r.DB.Model(&model.Message{}).
		Where("conversation_id = ? AND is_read = ?", conversationID, false).
		Where("NOT (sender_kind = ? AND sender_id = ?)", actor.Kind, actor.ID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// TouchConversation 更新会话时间戳，用于按最近活动排序
func (r *MessageRepository) TouchConversation(tx *gorm.DB, conversationID uint) error {
	return tx.Model(&model.Conversation{}).Where("id = ?", conversationID).
		Update("updated_at", tx.NowFunc()).Error
}
