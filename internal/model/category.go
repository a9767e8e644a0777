package model

// swagger:model Category
type Category struct {
	BaseModel
	Name string `gorm:"size:100;unique;not null" json:"name"`
	Icon string `gorm:"size:100" json:"icon"`
}

func (Category) TableName() string {
	return "categories"
}
