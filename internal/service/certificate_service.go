package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CertificateService struct {
	CertificateRepo *repository.CertificateRepository
}

func NewCertificateService(certificateRepo *repository.CertificateRepository) *CertificateService {
	return &CertificateService{CertificateRepo: certificateRepo}
}

// ListMyCertificates 学生名下全部证书
func (s *CertificateService) ListMyCertificates(studentID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByStudent(studentID)
}

// GetCertificate 学生查看自己的证书，他人的证书按不存在处理
func (s *CertificateService) GetCertificate(studentID, certificateID uint) (*model.Certificate, error) {
	cert, err := s.CertificateRepo.FindByID(certificateID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}
	if cert.StudentID != studentID {
		return nil, util.ErrCertificateNotFound
	}
	return cert, nil
}

// VerifyByCode 公开验证接口：按编号查证书真伪
func (s *CertificateService) VerifyByCode(code string) (*model.Certificate, error) {
	cert, err := s.CertificateRepo.FindByCode(code)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCertificateNotFound
	}
	if err != nil {
		return nil, err
	}
	return cert, nil
}
