package model

import "time"

// QuizAttempt 测验作答记录，只追加：每次提交都新建一条，保留完整历史。
// swagger:model QuizAttempt
type QuizAttempt struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"index;not null" json:"studentId"`
	QuizID    uint      `gorm:"index;not null" json:"quizId"`
	Quiz      Quiz      `gorm:"foreignKey:QuizID" json:"quiz"`
	Score     float64   `gorm:"default:0" json:"score"` // 百分比
	Passed    bool      `gorm:"default:false" json:"passed"`
	CreatedAt time.Time `json:"createdAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
