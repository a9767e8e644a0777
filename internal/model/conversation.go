package model

// Conversation 会话。私聊恰好一名教师 + 一名学生；
// 群聊(课程公告)挂在课程上，广播时把当前已选课学生全部拉入。
// swagger:model Conversation
type Conversation struct {
	BaseModel
	CourseID *uint                 `gorm:"index" json:"courseId"` // 群聊所属课程，私聊为空
	IsGroup  bool                  `gorm:"default:false" json:"isGroup"`
	Teachers []ConversationTeacher `gorm:"foreignKey:ConversationID" json:"teachers,omitempty"`
	Students []ConversationStudent `gorm:"foreignKey:ConversationID" json:"students,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant 判断多态身份是否是会话成员
func (c *Conversation) HasParticipant(actor Actor) bool {
	switch actor.Kind {
	case ActorTeacher:
		for _, t := range c.Teachers {
			if t.TeacherID == actor.ID {
				return true
			}
		}
	case ActorStudent:
		for _, s := range c.Students {
			if s.StudentID == actor.ID {
				return true
			}
		}
	}
	return false
}

type ConversationTeacher struct {
	ConversationID uint    `gorm:"primaryKey" json:"conversationId"`
	TeacherID      uint    `gorm:"primaryKey;index" json:"teacherId"`
	Teacher        Teacher `gorm:"foreignKey:TeacherID" json:"teacher"`
}

func (ConversationTeacher) TableName() string {
	return "conversation_teachers"
}

type ConversationStudent struct {
	ConversationID uint    `gorm:"primaryKey" json:"conversationId"`
	StudentID      uint    `gorm:"primaryKey;index" json:"studentId"`
	Student        Student `gorm:"foreignKey:StudentID" json:"student"`
}

func (ConversationStudent) TableName() string {
	return "conversation_students"
}
