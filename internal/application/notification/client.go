package notification

import "context"

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Text    string
}

// MailClient sends transactional email through the mail provider.
type MailClient interface {
	// Send delivers a single message
	Send(ctx context.Context, msg Message) error
}
