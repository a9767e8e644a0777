package model

// Review 课程评价，每个(课程, 学生)一条，重复提交按更新处理。
// swagger:model Review
type Review struct {
	BaseModel
	CourseID  uint    `gorm:"uniqueIndex:idx_review_course_student;not null" json:"courseId"`
	StudentID uint    `gorm:"uniqueIndex:idx_review_course_student;not null" json:"studentId"`
	Student   Student `gorm:"foreignKey:StudentID" json:"student"`
	Rating    int     `gorm:"not null" json:"rating"` // 1-5
	Comment   string  `gorm:"type:text" json:"comment"`
}

func (Review) TableName() string {
	return "reviews"
}
