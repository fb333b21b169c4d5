package services

import (
	"context"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

// NotificationService defines notification operations
type NotificationService interface {
	GetAll(ctx context.Context) ([]*models.Notification, error)
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	GetByUser(ctx context.Context, userID int64) ([]*models.Notification, error)
	GetByStatus(ctx context.Context, status string) ([]*models.Notification, error)
	Create(ctx context.Context, req *dto.NotificationRequest) (*models.Notification, error)
	Update(ctx context.Context, id int64, req *dto.UpdateNotificationRequest) (*models.Notification, error)
	MarkAsRead(ctx context.Context, id int64) (*models.Notification, error)
	Delete(ctx context.Context, id int64) error
}

type notificationServiceImpl struct {
	notificationRepo repositories.INotificationRepository
	userRepo         repositories.IUserRepository
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(notificationRepo repositories.INotificationRepository, userRepo repositories.IUserRepository) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo, userRepo: userRepo}
}

func checkNotificationStatus(status string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized != models.NotificationSent && normalized != models.NotificationRead {
		return "", invalidf("Invalid notification status '%s'. Allowed values: %s, %s",
			status, models.NotificationSent, models.NotificationRead)
	}
	return normalized, nil
}

func (s *notificationServiceImpl) GetAll(ctx context.Context) ([]*models.Notification, error) {
	return s.notificationRepo.GetAll(ctx)
}

func (s *notificationServiceImpl) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrNotificationNotFound, "Notification with ID %d not found", id)
	}
	return notification, nil
}

func (s *notificationServiceImpl) GetByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.notificationRepo.GetByUser(ctx, userID)
}

func (s *notificationServiceImpl) GetByStatus(ctx context.Context, status string) ([]*models.Notification, error) {
	normalized, err := checkNotificationStatus(status)
	if err != nil {
		return nil, err
	}
	return s.notificationRepo.GetByStatus(ctx, normalized)
}

func (s *notificationServiceImpl) Create(ctx context.Context, req *dto.NotificationRequest) (*models.Notification, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, referenceErr(err, apperrors.ErrUserNotFound, "User with ID %d not found", req.UserID)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, invalidf("Message cannot be empty")
	}
	notification := &models.Notification{
		UserID:  req.UserID,
		Message: req.Message,
		Status:  models.NotificationSent,
	}
	if req.Status != nil {
		status, err := checkNotificationStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		notification.Status = status
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, referenceErr(err, apperrors.ErrUserNotFound, "User with ID %d not found", req.UserID)
	}
	return notification, nil
}

func (s *notificationServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateNotificationRequest) (*models.Notification, error) {
	notification, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Message != nil {
		notification.Message = *req.Message
	}
	if req.Status != nil {
		if notification.Status, err = checkNotificationStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if err := s.notificationRepo.Update(ctx, notification); err != nil {
		return nil, describeNotFound(err, apperrors.ErrNotificationNotFound, "Notification with ID %d not found", id)
	}
	return notification, nil
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, id int64) (*models.Notification, error) {
	read := models.NotificationRead
	return s.Update(ctx, id, &dto.UpdateNotificationRequest{Status: &read})
}

func (s *notificationServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrNotificationNotFound, "Notification with ID %d not found", id)
	}
	return nil
}
