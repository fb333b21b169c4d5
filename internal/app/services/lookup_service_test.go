package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

func TestGroupService_GetByName(t *testing.T) {
	svc := NewGroupService(newFakeGroups(
		&models.Group{ID: 7, Name: "3141"},
		&models.Group{ID: 8, Name: "3142"},
	))

	group, err := svc.GetByName(context.Background(), " 3142 ")
	require.NoError(t, err)
	assert.Equal(t, int64(8), group.ID)

	_, err = svc.GetByName(context.Background(), "9999")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Group with name '9999' not found", apperrors.MessageOf(err, ""))
}

func TestRoomService_GetByBuilding(t *testing.T) {
	svc := NewRoomService(newFakeRooms(
		&models.Room{ID: 1, Name: "C201", BuildingName: "C"},
		&models.Room{ID: 2, Name: "C104", BuildingName: "C"},
		&models.Room{ID: 3, Name: "A12", BuildingName: "A"},
	))

	tests := []struct {
		name      string
		building  string
		wantNames []string
		wantErr   bool
	}{
		{"sorted by name", "C", []string{"C104", "C201"}, false},
		{"case-insensitive", "a", []string{"A12"}, false},
		{"unknown building is empty", "Z", []string{}, false},
		{"blank building", "  ", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := svc.GetByBuilding(context.Background(), tt.building)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			names := []string{}
			for _, r := range rooms {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}
