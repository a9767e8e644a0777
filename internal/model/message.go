package model

import "time"

// Message 会话消息。发送者是多态身份 (SenderKind, SenderID)。
// is_read 是会话全局标记而非按人记录——只在"会话最多两类参与者"
// 的前提下成立，未读数统计必须排除发送者自己，而不是查每人的已读表。
// swagger:model Message
type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint      `gorm:"index;index:idx_msg_conv_created;not null" json:"conversationId"`
	SenderKind     ActorKind `gorm:"size:10;index:idx_msg_sender;not null" json:"senderKind"`
	SenderID       uint      `gorm:"index:idx_msg_sender;not null" json:"senderId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"default:false" json:"isRead"`
	CreatedAt      time.Time `gorm:"index:idx_msg_conv_created" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

// SentBy 按多态身份判断消息是否由该用户发出
func (m *Message) SentBy(actor Actor) bool {
	return actor.Same(m.SenderKind, m.SenderID)
}
