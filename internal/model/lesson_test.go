package model

import "testing"

func TestLessonProgressPercent(t *testing.T) {
	duration := 120
	known := Lesson{DurationSeconds: &duration}
	unknown := Lesson{}

	tests := []struct {
		name      string
		lesson    *Lesson
		watched   int
		completed bool
		want      float64
	}{
		{"half watched", &known, 60, false, 50},
		{"full watched", &known, 120, true, 100},
		{"overshoot clamps", &known, 500, true, 100},
		{"nothing watched", &known, 0, false, 0},
		{"unknown duration incomplete", &unknown, 9999, false, 0},
		{"unknown duration completed", &unknown, 0, true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lesson.ProgressPercent(tt.watched, tt.completed); got != tt.want {
				t.Errorf("ProgressPercent(%d, %v) = %v, want %v", tt.watched, tt.completed, got, tt.want)
			}
		})
	}
}
