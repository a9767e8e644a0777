package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	SectionID       uint    `gorm:"index;not null" json:"sectionId"`
	Section         Section `gorm:"foreignKey:SectionID" json:"-"`
	Title           string  `gorm:"size:200;not null" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	VideoURL        string  `gorm:"size:500" json:"videoUrl"`
	DurationSeconds *int    `json:"durationSeconds"` // 为空表示时长未知，完成状态只看 completed 标记
	Order           int     `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// ProgressPercent 单课时进度百分比。
// 时长已知按观看比例封顶 100，未知则按完成标记取 0/100。
func (l *Lesson) ProgressPercent(watchedSeconds int, completed bool) float64 {
	if l.DurationSeconds != nil && *l.DurationSeconds > 0 {
		pct := float64(watchedSeconds) / float64(*l.DurationSeconds) * 100
		if pct > 100 {
			pct = 100
		}
		return pct
	}
	if completed {
		return 100
	}
	return 0
}
