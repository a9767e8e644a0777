package service

import (
	"errors"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

func TestStudentRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)

	student := &model.Student{
		FullName: "张三",
		Email:    "zhangsan@test.local",
		Password: "secret123",
	}
	if err := e.auth.RegisterStudent(student); err != nil {
		t.Fatalf("register: %v", err)
	}
	if student.Password == "secret123" {
		t.Fatalf("password must be hashed before storage")
	}

	dup := &model.Student{FullName: "李四", Email: "zhangsan@test.local", Password: "x"}
	if err := e.auth.RegisterStudent(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("duplicate email: err = %v, want ErrEmailRegistered", err)
	}

	token, logged, err := e.auth.LoginStudent("zhangsan@test.local", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || logged.ID != student.ID {
		t.Errorf("login returned token=%q id=%d", token, logged.ID)
	}

	if _, _, err := e.auth.LoginStudent("zhangsan@test.local", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := e.auth.LoginStudent("nobody@test.local", "secret123"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	e := newTestEnv(t)

	teacher := &model.Teacher{FullName: "王老师", Email: "wang@test.local", Password: "oldpass"}
	if err := e.auth.RegisterTeacher(teacher); err != nil {
		t.Fatalf("register: %v", err)
	}

	actor := model.Actor{Kind: model.ActorTeacher, ID: teacher.ID}
	if err := e.auth.ChangePassword(actor, "wrongold", "newpass"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong old password: err = %v, want ErrInvalidCredentials", err)
	}
	if err := e.auth.ChangePassword(actor, "oldpass", "newpass"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, _, err := e.auth.LoginTeacher("wang@test.local", "oldpass"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("old password must stop working, err = %v", err)
	}
	if _, _, err := e.auth.LoginTeacher("wang@test.local", "newpass"); err != nil {
		t.Errorf("new password login: %v", err)
	}
}
