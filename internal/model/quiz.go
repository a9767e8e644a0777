package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID    uint       `gorm:"index;not null" json:"courseId"`
	Course      Course     `gorm:"foreignKey:CourseID" json:"-"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	PassMark    int        `gorm:"default:0" json:"passMark"` // 及格线百分比 0-100
	Questions   []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID       uint     `gorm:"index;not null" json:"quizId"`
	QuestionText string   `gorm:"type:text;not null" json:"questionText"`
	Order        int      `gorm:"default:0" json:"order"`
	Options      []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Option 选项。IsCorrect 在学生侧接口中一律剔除，评分前不暴露。
// swagger:model Option
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	OptionText string `gorm:"size:500;not null" json:"optionText"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (Option) TableName() string {
	return "options"
}
