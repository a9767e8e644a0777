package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Exists(tx *gorm.DB, studentID, courseID uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Certificate{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *CertificateRepository) Create(tx *gorm.DB, cert *model.Certificate) error {
	return tx.Create(cert).Error
}

func (r *CertificateRepository) FindByID(id uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("Student").Preload("Course").Preload("Teacher").
		First(&cert, id).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByCode(code string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("Student").Preload("Course").Preload("Teacher").
		Where("code = ?", code).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByStudent(studentID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Preload("Course").Preload("Teacher").
		Where("student_id = ?", studentID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) Find(studentID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("Course").Preload("Teacher").
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}
