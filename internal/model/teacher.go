package model

// swagger:model Teacher
type Teacher struct {
	BaseModel
	FullName      string `gorm:"size:200;not null" json:"fullName"`
	Email         string `gorm:"size:100;unique;not null" json:"email"`
	Password      string `gorm:"size:128;not null" json:"-"`
	Bio           string `gorm:"type:text" json:"bio"`
	Qualification string `gorm:"size:200" json:"qualification"`
	Skills        string `gorm:"size:500" json:"skills"`
	ProfileImg    string `gorm:"size:255" json:"profileImg"`
}

func (Teacher) TableName() string {
	return "teachers"
}
