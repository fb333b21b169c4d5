package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/xuri/excelize/v2"
)

func leaderSheet(t *testing.T, rows [][]interface{}) []byte {
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
	return buf.Bytes()
}

func TestExcelService_ImportGroupLeaders(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 1, Email: "existing@student.usv.ro", Role: models.RoleStudentGroup, GroupID: int64Ptr(7)})
	groups := newFakeGroups(&models.Group{ID: 7, Name: "3141"})
	svc := NewExcelService(users, groups, testLogger)

	content := leaderSheet(t, [][]interface{}{
		{"Nume", "Prenume", "Email", "Grupa"},
		{"Albu", "Tudor", "Tudor.Albu@student.usv.ro", "3141"},
		{"Pop", "Ana", "existing@student.usv.ro", "3141"},
		{"Ion", "Ion", "ion@student.usv.ro", "9999"},
		{"Rusu", "Dan", "not-an-email", "3141"},
	})

	result, err := svc.ImportGroupLeaders(context.Background(), strings.NewReader(string(content)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Failed)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "group '9999' not found")

	created, err := users.GetByEmail(context.Background(), "tudor.albu@student.usv.ro")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudentGroup, created.Role)
	assert.Equal(t, int64(7), *created.GroupID)
}

func TestExcelService_ImportRejectsMissingColumns(t *testing.T) {
	svc := NewExcelService(newFakeUsers(), newFakeGroups(), testLogger)

	content := leaderSheet(t, [][]interface{}{{"Nume", "Email"}})
	_, err := svc.ImportGroupLeaders(context.Background(), strings.NewReader(string(content)))
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
}
