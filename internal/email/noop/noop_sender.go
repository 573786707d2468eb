// Package noop provides an EmailSender that only logs, for development and
// dry runs.
package noop

import (
	"context"
	"log"

	"vendido/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (n *noopSender) Send(_ context.Context, msg port.Message) error {
	log.Printf("email.noop: would send %q to %v (%d bytes html)", msg.Subject, msg.To, len(msg.HTMLBody))
	return nil
}
