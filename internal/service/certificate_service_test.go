package service

import (
	"errors"
	"testing"

	"lms_backend/internal/util"
)

func TestCertificateAccessAndVerification(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, lessons := e.createCourse(t, teacher.ID, 0, 60)
	e.enroll(t, student.ID, course.ID)

	result, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 60, false)
	if err != nil || !result.CertificateIssued {
		t.Fatalf("setup certificate: issued=%v err=%v", result != nil && result.CertificateIssued, err)
	}
	cert := result.Certificate

	list, err := e.certificate.ListMyCertificates(student.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %d (%v), want 1", len(list), err)
	}

	got, err := e.certificate.GetCertificate(student.ID, cert.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != cert.Code {
		t.Errorf("code = %q, want %q", got.Code, cert.Code)
	}

	// 别人的证书按不存在处理
	other := e.createStudent(t, "other")
	if _, err := e.certificate.GetCertificate(other.ID, cert.ID); !errors.Is(err, util.ErrCertificateNotFound) {
		t.Errorf("foreign certificate: err = %v, want ErrCertificateNotFound", err)
	}

	// 编号验证是公开接口
	verified, err := e.certificate.VerifyByCode(cert.Code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.StudentID != student.ID || verified.CourseID != course.ID {
		t.Errorf("verified certificate points to wrong owner: %+v", verified)
	}
	if _, err := e.certificate.VerifyByCode("CERT-0-0-19700101"); !errors.Is(err, util.ErrCertificateNotFound) {
		t.Errorf("unknown code: err = %v, want ErrCertificateNotFound", err)
	}
}
