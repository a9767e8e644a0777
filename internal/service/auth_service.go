package service

import (
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	TeacherRepo *repository.TeacherRepository
	StudentRepo *repository.StudentRepository
	Cfg         *config.Config
}

func NewAuthService(teacherRepo *repository.TeacherRepository, studentRepo *repository.StudentRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		TeacherRepo: teacherRepo,
		StudentRepo: studentRepo,
		Cfg:         cfg,
	}
}

func (s *AuthService) RegisterTeacher(teacher *model.Teacher) error {
	exists, err := s.TeacherRepo.EmailExists(teacher.Email)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrEmailRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(teacher.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	teacher.Password = string(hashed)
	return s.TeacherRepo.Create(teacher)
}

func (s *AuthService) RegisterStudent(student *model.Student) error {
	exists, err := s.StudentRepo.EmailExists(student.Email)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrEmailRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(student.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	student.Password = string(hashed)
	return s.StudentRepo.Create(student)
}

func (s *AuthService) LoginTeacher(email, password string) (string, *model.Teacher, error) {
	teacher, err := s.TeacherRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(model.ActorTeacher, teacher.ID, teacher.Email, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, teacher, nil
}

func (s *AuthService) LoginStudent(email, password string) (string, *model.Student, error) {
	student, err := s.StudentRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(model.ActorStudent, student.ID, student.Email, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, student, nil
}

func (s *AuthService) GetTeacher(id uint) (*model.Teacher, error) {
	teacher, err := s.TeacherRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrTeacherNotFound
	}
	return teacher, err
}

func (s *AuthService) GetStudent(id uint) (*model.Student, error) {
	student, err := s.StudentRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrStudentNotFound
	}
	return student, err
}

// UpdateTeacherProfile 只更新资料字段，邮箱和密码走各自入口
func (s *AuthService) UpdateTeacherProfile(id uint, fullName, bio, qualification, skills, profileImg string) (*model.Teacher, error) {
	teacher, err := s.GetTeacher(id)
	if err != nil {
		return nil, err
	}
	teacher.FullName = fullName
	teacher.Bio = bio
	teacher.Qualification = qualification
	teacher.Skills = skills
	if profileImg != "" {
		teacher.ProfileImg = profileImg
	}
	return teacher, s.TeacherRepo.Update(teacher)
}

func (s *AuthService) UpdateStudentProfile(id uint, fullName, bio, mobileNo, profileImg string) (*model.Student, error) {
	student, err := s.GetStudent(id)
	if err != nil {
		return nil, err
	}
	student.FullName = fullName
	student.Bio = bio
	student.MobileNo = mobileNo
	if profileImg != "" {
		student.ProfileImg = profileImg
	}
	return student, s.StudentRepo.Update(student)
}

func (s *AuthService) ChangePassword(actor model.Actor, oldPassword, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	switch actor.Kind {
	case model.ActorTeacher:
		teacher, err := s.GetTeacher(actor.ID)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(oldPassword)); err != nil {
			return util.ErrInvalidCredentials
		}
		teacher.Password = string(hashed)
		return s.TeacherRepo.Update(teacher)
	default:
		student, err := s.GetStudent(actor.ID)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(oldPassword)); err != nil {
			return util.ErrInvalidCredentials
		}
		student.Password = string(hashed)
		return s.StudentRepo.Update(student)
	}
}
