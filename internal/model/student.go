package model

// swagger:model Student
type Student struct {
	BaseModel
	FullName   string `gorm:"size:200;not null" json:"fullName"`
	Email      string `gorm:"size:100;unique;not null" json:"email"`
	Password   string `gorm:"size:128;not null" json:"-"`
	MobileNo   string `gorm:"size:20" json:"mobileNo"`
	Bio        string `gorm:"type:text" json:"bio"`
	ProfileImg string `gorm:"size:255" json:"profileImg"`
}

func (Student) TableName() string {
	return "students"
}
