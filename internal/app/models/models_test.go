package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" cd ")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, r)

	_, err = ParseRole("ROOT")
	assert.EqualError(t, err, "invalid role 'ROOT'. Allowed values: SG, CD, SEC, ADM")
}

func TestExamPeriodContains(t *testing.T) {
	p := &ExamPeriod{
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, p.Contains(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 6, 20, 15, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)))
}

func TestUserFullName(t *testing.T) {
	u := &User{FirstName: "Matei", LastName: "Neagu"}
	assert.Equal(t, "Neagu Matei", u.FullName())
}

func TestExamDurationHours(t *testing.T) {
	clock := func(s string) *string { return &s }

	tests := []struct {
		name       string
		start, end *string
		want       int
	}{
		{"unset", nil, nil, 0},
		{"two hours", clock("10:00"), clock("12:00"), 2},
		{"half hour rounds up to one", clock("10:00"), clock("10:30"), 1},
		{"two and a half hours", clock("09:00"), clock("11:30"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Exam{StartTime: tt.start, EndTime: tt.end}
			assert.Equal(t, tt.want, e.DurationHours())
		})
	}

	e := &Exam{TeacherFirstName: "Matei", TeacherLastName: "Neagu"}
	assert.Equal(t, "Neagu Matei", e.TeacherName())
}
