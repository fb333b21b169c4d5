package email

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSenderFallsBackToLog(t *testing.T) {
	s := NewSender(Config{}, zerolog.Nop())

	_, ok := s.(*LogSender)
	assert.True(t, ok)
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(zerolog.Nop())

	require.NoError(t, s.Send(context.Background(), PeriodNotice("Tudor Albu", "t@student.usv.ro", "2025-06-01", "2025-06-20")))
	assert.ErrorIs(t, s.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipient)

	sent := s.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, PeriodSubject, sent[0].Subject)
	assert.Contains(t, sent[0].HTMLContent, "2025-06-20")
}

func TestDecisionNotice(t *testing.T) {
	rejected := DecisionNotice("SG", "sg@student.usv.ro", "PCLP", "2025-06-03", "Sala ocupată", false)
	approved := DecisionNotice("SG", "sg@student.usv.ro", "PCLP", "2025-06-03", "", true)

	assert.Contains(t, rejected.Subject, "respins")
	assert.Contains(t, rejected.HTMLContent, "Sala ocupată")
	assert.Contains(t, approved.Subject, "aprobat")
}
