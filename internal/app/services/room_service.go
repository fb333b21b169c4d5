package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

// RoomService defines room operations
type RoomService interface {
	GetAll(ctx context.Context) ([]*models.Room, error)
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	GetByBuilding(ctx context.Context, building string) ([]*models.Room, error)
	Create(ctx context.Context, req *dto.RoomRequest) (*models.Room, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*models.Room, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type roomServiceImpl struct {
	roomRepo repositories.IRoomRepository
}

// NewRoomService creates a new room service instance
func NewRoomService(roomRepo repositories.IRoomRepository) RoomService {
	return &roomServiceImpl{roomRepo: roomRepo}
}

func (s *roomServiceImpl) GetAll(ctx context.Context) ([]*models.Room, error) {
	return s.roomRepo.GetAll(ctx)
}

func (s *roomServiceImpl) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrRoomNotFound, "Room with ID %d not found", id)
	}
	return room, nil
}

func (s *roomServiceImpl) GetByBuilding(ctx context.Context, building string) ([]*models.Room, error) {
	building = strings.TrimSpace(building)
	if building == "" {
		return nil, invalidf("Building name is required")
	}
	return s.roomRepo.GetByBuilding(ctx, building)
}

func (s *roomServiceImpl) Create(ctx context.Context, req *dto.RoomRequest) (*models.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("Room name cannot be empty")
	}
	if req.Capacity < 0 || req.Computers < 0 {
		return nil, invalidf("Capacity and computers cannot be negative")
	}
	room := &models.Room{
		Name:         name,
		ShortName:    strings.TrimSpace(req.ShortName),
		BuildingName: strings.TrimSpace(req.BuildingName),
		Capacity:     req.Capacity,
		Computers:    req.Computers,
	}
	if room.ShortName == "" {
		room.ShortName = room.Name
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("error creating room: %w", err)
	}
	return room, nil
}

func (s *roomServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*models.Room, error) {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, invalidf("Room name cannot be empty")
		}
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.ShortName != nil {
		room.ShortName = strings.TrimSpace(*req.ShortName)
	}
	if req.BuildingName != nil {
		room.BuildingName = strings.TrimSpace(*req.BuildingName)
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Computers != nil {
		room.Computers = *req.Computers
	}
	if room.Capacity < 0 || room.Computers < 0 {
		return nil, invalidf("Capacity and computers cannot be negative")
	}
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, describeNotFound(err, apperrors.ErrRoomNotFound, "Room with ID %d not found", id)
	}
	return room, nil
}

func (s *roomServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrRoomNotFound, "Room with ID %d not found", id)
	}
	return nil
}

func (s *roomServiceImpl) DeleteAll(ctx context.Context) (int64, error) {
	return s.roomRepo.DeleteAll(ctx)
}
