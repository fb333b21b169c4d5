package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridSender struct {
	key    string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSender returns a SendGrid sender, or a log-only sender when cfg.APIKey is empty.
func NewSender(cfg Config, logger zerolog.Logger) Sender {
	if cfg.APIKey == "" {
		logger.Warn().Msg("SendGrid API key not set, emails will only be logged")
		return NewLogSender(logger)
	}
	return &sendgridSender{
		key:    cfg.APIKey,
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

func (s *sendgridSender) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)

	text := msg.TextContent
	if text == "" {
		text = msg.Subject
	}
	m.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)
	return m
}

func (s *sendgridSender) Send(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return ErrNoRecipient
	}

	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("email", msg.ToEmail).Msg("Sending email failed")
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error().Int("status", res.StatusCode).Str("body", res.Body).Str("email", msg.ToEmail).Msg("SendGrid rejected email")
		return fmt.Errorf("sending email: sendgrid status %d", res.StatusCode)
	}

	s.logger.Info().Str("email", msg.ToEmail).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}
