package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

func TestSubmitProgressPartialWatch(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, lessons := e.createCourse(t, teacher.ID, 0, 120, 120)
	e.enroll(t, student.ID, course.ID)

	result, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 60, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.LessonProgress.Completed {
		t.Errorf("lesson should not be completed at 60/120 seconds")
	}
	if result.CourseProgress != 25 {
		t.Errorf("course progress = %v, want 25 (mean of 50%% and 0%%)", result.CourseProgress)
	}
	if result.CourseCompleted || result.CertificateIssued {
		t.Errorf("course must not be completed: %+v", result)
	}
}

func TestSubmitProgressCompletesCourseAndIssuesCertificate(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, lessons := e.createCourse(t, teacher.ID, 0, 120, 120)
	enrollment := e.enroll(t, student.ID, course.ID)

	if _, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 120, false); err != nil {
		t.Fatalf("submit lesson 1: %v", err)
	}

	result, err := e.progress.SubmitLessonProgress(student.ID, lessons[1].ID, 120, false)
	if err != nil {
		t.Fatalf("submit lesson 2: %v", err)
	}
	if !result.CourseCompleted {
		t.Fatalf("course should be completed, progress=%v", result.CourseProgress)
	}
	if result.CourseProgress != 100 {
		t.Errorf("course progress = %v, want 100", result.CourseProgress)
	}
	if !result.CertificateIssued || result.Certificate == nil {
		t.Fatalf("certificate should be issued on first completion")
	}

	wantCode := fmt.Sprintf("CERT-%d-%d-%s", course.ID, student.ID, time.Now().Format("20060102"))
	if result.Certificate.Code != wantCode {
		t.Errorf("certificate code = %q, want %q", result.Certificate.Code, wantCode)
	}

	var reloaded model.Enrollment
	if err := e.db.First(&reloaded, enrollment.ID).Error; err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if !reloaded.Completed {
		t.Errorf("enrollment completed flag should be persisted")
	}
}

func TestCertificateIssuedOnlyOnce(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, lessons := e.createCourse(t, teacher.ID, 0, 60)
	e.enroll(t, student.ID, course.ID)

	first, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 60, false)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !first.CertificateIssued {
		t.Fatalf("first completion should issue a certificate")
	}

	// 完成后重复上报：课程仍完成，但不再发证
	second, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 90, true)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !second.CourseCompleted {
		t.Errorf("course should remain completed")
	}
	if second.CertificateIssued {
		t.Errorf("repeat submission must not issue another certificate")
	}

	var count int64
	if err := e.db.Model(&model.Certificate{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count certificates: %v", err)
	}
	if count != 1 {
		t.Errorf("certificate count = %d, want 1", count)
	}
}

func TestCompletionDemotedWhenLessonAdded(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, lessons := e.createCourse(t, teacher.ID, 0, 60)
	enrollment := e.enroll(t, student.ID, course.ID)

	if _, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 60, false); err != nil {
		t.Fatalf("complete course: %v", err)
	}

	// 老师在已完成的课程里新增课时
	d := 300
	extra := &model.Lesson{SectionID: lessons[0].SectionID, Title: "补充课时", Order: 2, DurationSeconds: &d}
	if err := e.courseRepo.CreateLesson(extra); err != nil {
		t.Fatalf("add lesson: %v", err)
	}

	result, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 60, false)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if result.CourseCompleted {
		t.Errorf("course should no longer be completed after a lesson was added")
	}
	if result.CourseProgress != 50 {
		t.Errorf("course progress = %v, want 50", result.CourseProgress)
	}

	var reloaded model.Enrollment
	if err := e.db.First(&reloaded, enrollment.ID).Error; err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if reloaded.Completed {
		t.Errorf("enrollment should be demoted to not completed")
	}

	// 已发的证书不回收
	var certs int64
	if err := e.db.Model(&model.Certificate{}).Count(&certs).Error; err != nil {
		t.Fatalf("count certificates: %v", err)
	}
	if certs != 1 {
		t.Errorf("existing certificate must survive demotion, count = %d", certs)
	}
}

func TestUnknownDurationLessonNeedsHint(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, lessons := e.createCourse(t, teacher.ID, 0, 0) // 时长未知
	e.enroll(t, student.ID, course.ID)

	result, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 9999, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.LessonProgress.Completed {
		t.Errorf("watched seconds alone must not complete a lesson with unknown duration")
	}
	if result.CourseProgress != 0 {
		t.Errorf("progress = %v, want 0 for incomplete unknown-duration lesson", result.CourseProgress)
	}

	result, err = e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 9999, true)
	if err != nil {
		t.Fatalf("submit with hint: %v", err)
	}
	if !result.LessonProgress.Completed || result.CourseProgress != 100 {
		t.Errorf("explicit completion hint should complete the lesson, got %+v", result)
	}
}

func TestSubmitProgressRequiresEnrollment(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	_, lessons := e.createCourse(t, teacher.ID, 0, 120)

	_, err := e.progress.SubmitLessonProgress(student.ID, lessons[0].ID, 30, false)
	if !errors.Is(err, util.ErrNotEnrolled) {
		t.Fatalf("err = %v, want ErrNotEnrolled", err)
	}

	_, err = e.progress.SubmitLessonProgress(student.ID, 99999, 30, false)
	if !errors.Is(err, util.ErrLessonNotFound) {
		t.Fatalf("err = %v, want ErrLessonNotFound", err)
	}
}

func TestZeroLessonCourseNeverCompletes(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	student := e.createStudent(t, "student1")
	course, _ := e.createCourse(t, teacher.ID, 0) // 没有课时
	e.enroll(t, student.ID, course.ID)

	overall, completed, err := e.progress.recomputeTx(e.db, student.ID, course.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if completed {
		t.Errorf("a course with zero lessons must never count as completed")
	}
	if overall != 0 {
		t.Errorf("overall = %v, want 0", overall)
	}
}

func TestCourseAnalyticsBuckets(t *testing.T) {
	e := newTestEnv(t)
	teacher := e.createTeacher(t, "teacher1")
	course, _ := e.createCourse(t, teacher.ID, 0, 100)

	// 五名学生，进度分别落在 0 / 25 / 50 / 75 / 100
	for i, p := range []float64{0, 25, 50, 75, 100} {
		student := e.createStudent(t, fmt.Sprintf("student%d", i+1))
		e.enroll(t, student.ID, course.ID)
		if err := e.progressRepo.UpsertCourseProgress(e.db, student.ID, course.ID, p); err != nil {
			t.Fatalf("seed progress: %v", err)
		}
	}

	view, err := e.progress.CourseAnalytics(teacher.ID, course.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if view.TotalStudents != 5 {
		t.Errorf("total students = %d, want 5", view.TotalStudents)
	}

	// 分桶边界：下闭上开，最高桶双闭，100 落在 75-100
	want := map[string]int{"0-25": 1, "25-50": 1, "50-75": 1, "75-100": 2}
	for bucket, n := range want {
		if view.ProgressBuckets[bucket] != n {
			t.Errorf("bucket %s = %d, want %d", bucket, view.ProgressBuckets[bucket], n)
		}
	}
	if view.AverageProgress != 50 {
		t.Errorf("average progress = %v, want 50", view.AverageProgress)
	}
	if view.ActiveLast7Days != 5 {
		t.Errorf("active last 7 days = %d, want 5 (all rows just touched)", view.ActiveLast7Days)
	}
}

func TestCourseAnalyticsRequiresOwnership(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createTeacher(t, "owner")
	other := e.createTeacher(t, "other")
	course, _ := e.createCourse(t, owner.ID, 0, 60)

	_, err := e.progress.CourseAnalytics(other.ID, course.ID)
	if !errors.Is(err, util.ErrNotCourseOwner) {
		t.Fatalf("err = %v, want ErrNotCourseOwner", err)
	}
}
