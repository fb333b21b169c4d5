package email

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// LogSender writes messages to the log instead of sending them.
// Sent messages are kept so tests can inspect them.
type LogSender struct {
	logger zerolog.Logger

	mu   sync.Mutex
	sent []Message
}

// NewLogSender creates a LogSender.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return ErrNoRecipient
	}
	s.logger.Info().Str("to", msg.ToEmail).Str("subject", msg.Subject).Msg("Email (log only)")

	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

// Sent returns a copy of the messages recorded so far.
func (s *LogSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
