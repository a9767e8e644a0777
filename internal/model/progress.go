package model

import "time"

// LessonProgress 进度台账：每个(学生, 课时)一条，由学生自己的上报覆盖更新。
// swagger:model LessonProgress
type LessonProgress struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID      uint      `gorm:"uniqueIndex:idx_progress_student_lesson;not null" json:"studentId"`
	LessonID       uint      `gorm:"uniqueIndex:idx_progress_student_lesson;not null" json:"lessonId"`
	WatchedSeconds int       `gorm:"default:0" json:"watchedSeconds"`
	Completed      bool      `gorm:"default:false" json:"completed"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// CourseProgress 课程级进度缓存，可随时由 LessonProgress + 课时时长重算得出，
// 不是事实来源。
// swagger:model CourseProgress
type CourseProgress struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID       uint      `gorm:"uniqueIndex:idx_cp_student_course;index:idx_cp_course,priority:2;not null" json:"studentId"`
	CourseID        uint      `gorm:"uniqueIndex:idx_cp_student_course;index:idx_cp_course,priority:1;not null" json:"courseId"`
	OverallProgress float64   `gorm:"default:0" json:"overallProgress"` // 0-100
	LastAccess      time.Time `gorm:"autoUpdateTime" json:"lastAccess"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}
