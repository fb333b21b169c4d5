// Package email delivers notification mail through SendGrid, or to the log when
// no API key is configured.
package email

import (
	"context"
	"errors"
)

// ErrNoRecipient is returned for a message without a destination address.
var ErrNoRecipient = errors.New("email: message has no recipient")

// Message is a single outbound email.
type Message struct {
	ToName      string
	ToEmail     string
	Subject     string
	HTMLContent string
	TextContent string
}

// Sender delivers one message synchronously so the caller knows whether it went out.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds sender settings.
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
}
