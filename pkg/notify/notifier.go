// Package notify delivers transactional email for accepted quote
// submissions. The gateway hands over shaped content; this package renders
// the HTML body, sanitizes every user-supplied string, and sends through a
// Sender implementation.
package notify

import (
	"context"
)

// Message is the transport-level email shape handed to a Sender.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers a single message. Implementations report whether their
// credential is present so callers can fail loudly on misconfiguration
// instead of dropping mail.
type Sender interface {
	Configured() bool
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface. It always reports
// itself configured; tests use it for capture doubles.
type SenderFunc func(ctx context.Context, msg Message) error

// Configured always returns true.
func (f SenderFunc) Configured() bool { return true }

// Send calls the wrapped function.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
