package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type TeacherRepository struct {
	DB *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{DB: db}
}

func (r *TeacherRepository) Create(teacher *model.Teacher) error {
	return r.DB.Create(teacher).Error
}

func (r *TeacherRepository) FindByID(id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.First(&teacher, id).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *TeacherRepository) FindByEmail(email string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.Where("email = ?", email).First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *TeacherRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Teacher{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *TeacherRepository) Update(teacher *model.Teacher) error {
	return r.DB.Save(teacher).Error
}
