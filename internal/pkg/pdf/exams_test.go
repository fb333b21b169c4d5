package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
)

func TestExportExams(t *testing.T) {
	start, end := "10:00", "12:00"
	exams := make([]*models.Exam, 0, 60)
	for i := 0; i < 60; i++ {
		exams = append(exams, &models.Exam{
			SubjectName:      "Structuri de date și algoritmi avansați pentru ingineri",
			GroupName:        "3141",
			TeacherFirstName: "Matei",
			TeacherLastName:  "Neagu",
			StartTime:        &start,
			EndTime:          &end,
			RoomNames:        []string{"C201"},
		})
	}

	content, err := ExportExams(exams, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
}

func TestExportExams_Empty(t *testing.T) {
	content, err := ExportExams(nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}

func TestDiacriticsFolded(t *testing.T) {
	assert.Equal(t, "Sala de sedinte Tiganesti", diacritics.Replace("Sala de ședințe Țigănești"))
}
