package service

import (
	"errors"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

func TestSubmitReviewUpsertsAndRecalculatesStats(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	course, _ := e.createCourse(t, teacher.ID, 0, 60)

	s1 := e.createStudent(t, "s1")
	s2 := e.createStudent(t, "s2")
	e.enroll(t, s1.ID, course.ID)
	e.enroll(t, s2.ID, course.ID)

	if _, err := e.review.SubmitReview(s1.ID, course.ID, 5, "很好"); err != nil {
		t.Fatalf("review 1: %v", err)
	}
	if _, err := e.review.SubmitReview(s2.ID, course.ID, 3, "一般"); err != nil {
		t.Fatalf("review 2: %v", err)
	}

	var reloaded model.Course
	if err := e.db.First(&reloaded, course.ID).Error; err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if reloaded.TotalReviews != 2 {
		t.Errorf("total reviews = %d, want 2", reloaded.TotalReviews)
	}
	if reloaded.AverageRating != 4 {
		t.Errorf("average rating = %v, want 4", reloaded.AverageRating)
	}

	// 重复评价按更新处理，不新增一条
	if _, err := e.review.SubmitReview(s2.ID, course.ID, 5, "改观了"); err != nil {
		t.Fatalf("update review: %v", err)
	}
	if err := e.db.First(&reloaded, course.ID).Error; err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if reloaded.TotalReviews != 2 {
		t.Errorf("total reviews after update = %d, want 2", reloaded.TotalReviews)
	}
	if reloaded.AverageRating != 5 {
		t.Errorf("average rating after update = %v, want 5", reloaded.AverageRating)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	course, _ := e.createCourse(t, teacher.ID, 0, 60)
	student := e.createStudent(t, "s1")

	if _, err := e.review.SubmitReview(student.ID, course.ID, 4, "x"); !errors.Is(err, util.ErrNotEnrolled) {
		t.Errorf("err = %v, want ErrNotEnrolled", err)
	}

	e.enroll(t, student.ID, course.ID)
	for _, rating := range []int{0, 6, -1} {
		if _, err := e.review.SubmitReview(student.ID, course.ID, rating, "x"); !errors.Is(err, util.ErrRatingOutOfRange) {
			t.Errorf("rating %d: err = %v, want ErrRatingOutOfRange", rating, err)
		}
	}
}
