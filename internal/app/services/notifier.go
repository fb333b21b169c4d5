package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/email"
)

// Notifier emails a user and records an in-app notification once the email is accepted
type Notifier interface {
	Notify(ctx context.Context, user *models.User, msg email.Message) error
}

type notifierImpl struct {
	sender           email.Sender
	notificationRepo repositories.INotificationRepository
	logger           zerolog.Logger
}

// NewNotifier creates a Notifier
func NewNotifier(sender email.Sender, notificationRepo repositories.INotificationRepository, logger zerolog.Logger) Notifier {
	return &notifierImpl{sender: sender, notificationRepo: notificationRepo, logger: logger}
}

func (n *notifierImpl) Notify(ctx context.Context, user *models.User, msg email.Message) error {
	if user.Email == "" {
		return email.ErrNoRecipient
	}
	msg.ToEmail = user.Email
	if msg.ToName == "" {
		msg.ToName = user.FullName()
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", user.Email, err)
	}

	text := msg.TextContent
	if text == "" {
		text = msg.Subject
	}
	notification := &models.Notification{UserID: user.ID, Message: text, Status: models.NotificationSent}
	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("record notification for user %d: %w", user.ID, err)
	}

	n.logger.Debug().Int64("userId", user.ID).Str("subject", msg.Subject).Msg("Notification delivered")
	return nil
}
