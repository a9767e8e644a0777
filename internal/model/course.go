package model

// swagger:model Course
type Course struct {
	BaseModel
	TeacherID        uint      `gorm:"index;not null" json:"teacherId"`
	Teacher          Teacher   `gorm:"foreignKey:TeacherID" json:"teacher"`
	CategoryID       uint      `gorm:"index" json:"categoryId"`
	Category         Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Title            string    `gorm:"size:200;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	FeaturedImg      string    `gorm:"size:255" json:"featuredImg"`
	Level            string    `gorm:"size:20;default:'Beginner'" json:"level"` // Beginner / Intermediate / Advanced
	Price            float64   `gorm:"type:decimal(10,2)" json:"price"`
	DiscountPrice    *float64  `gorm:"type:decimal(10,2)" json:"discountPrice"`
	Language         string    `gorm:"size:100" json:"language"`
	Views            int       `gorm:"default:0" json:"views"`
	AverageRating    float64   `gorm:"default:0" json:"averageRating"`
	TotalReviews     int       `gorm:"default:0" json:"totalReviews"`
	TotalEnrollments int       `gorm:"default:0" json:"totalEnrollments"`
	Sections         []Section `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// EffectivePrice 下单金额：有折扣价用折扣价
func (c *Course) EffectivePrice() float64 {
	if c.DiscountPrice != nil {
		return *c.DiscountPrice
	}
	return c.Price
}
