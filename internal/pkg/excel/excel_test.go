package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/xuri/excelize/v2"
)

func strp(s string) *string { return &s }

func TestExportExams(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	approved := models.StatusApproved
	exams := []*models.Exam{{
		SubjectName:      "Programarea calculatoarelor",
		SubjectShortName: "PC",
		TeacherFirstName: "Matei",
		TeacherLastName:  "Neagu",
		TeacherEmail:     "matei.neagu@usv.ro",
		GroupName:        "3141",
		RoomNames:        []string{"C201", "C202"},
		Date:             &date,
		StartTime:        strp("10:00"),
		EndTime:          strp("12:00"),
		Status:           &approved,
	}}

	content, err := ExportExams(exams)
	require.NoError(t, err)
	require.NoError(t, ValidateWorkbook(content))

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(examSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Disciplina", rows[0][0])
	assert.Equal(t, "Programarea calculatoarelor", rows[1][0])
	assert.Equal(t, "Neagu Matei", rows[1][5])
	assert.Equal(t, "2025-06-10", rows[1][7])
	assert.Equal(t, "2", rows[1][10])
	assert.Equal(t, "C201, C202", rows[1][11])
	assert.Equal(t, "approved", rows[1][12])
}

func TestValidateWorkbook_Rejects(t *testing.T) {
	assert.ErrorIs(t, ValidateWorkbook([]byte("not a zip")), ErrInvalidWorkbook)
}

func leaderWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseGroupLeaders(t *testing.T) {
	buf := leaderWorkbook(t, [][]interface{}{
		{"Nume", "Prenume", "Email", "Grupa"},
		{"Albu", "Tudor", "tudor.albu@student.usv.ro", "3141"},
		{"Pop", "", "ana.pop@student.usv.ro", "3142"},
		{" Ionescu ", "Ion", "ion@student.usv.ro", "3143"},
	})

	leaders, err := ParseGroupLeaders(buf)
	require.NoError(t, err)
	require.Len(t, leaders, 2)
	assert.Equal(t, GroupLeader{Row: 2, LastName: "Albu", FirstName: "Tudor", Email: "tudor.albu@student.usv.ro", GroupName: "3141"}, leaders[0])
	assert.Equal(t, "Ionescu", leaders[1].LastName)
	assert.Equal(t, 4, leaders[1].Row)
}

func TestParseGroupLeaders_MissingColumns(t *testing.T) {
	buf := leaderWorkbook(t, [][]interface{}{{"Nume", "Email"}})

	_, err := ParseGroupLeaders(buf)
	assert.EqualError(t, err, "missing required columns: Prenume, Grupa")
}
