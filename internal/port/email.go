package port

import "context"

// Message is an outbound report email.
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender defines the contract for delivering report emails.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}
