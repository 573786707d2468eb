// Package smtp provides an EmailSender over plain SMTP: implicit TLS on
// port 465, STARTTLS otherwise.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"vendido/internal/config"
	"vendido/internal/domain"
	"vendido/internal/port"
)

type smtpSender struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
}

// NewSMTPSender creates an SMTP-backed EmailSender from mail settings.
func NewSMTPSender(cfg *config.MailConfig) port.EmailSender {
	return &smtpSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		pass:     cfg.SMTPPass,
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// Send delivers the message. net/smtp carries no context; cancellation is
// bounded by the connection's TLS/dial timeouts.
func (s *smtpSender) Send(_ context.Context, msg port.Message) error {
	if s.host == "" || s.from == "" || s.user == "" || s.pass == "" || len(msg.To) == 0 {
		return domain.ErrMailNotConfigured
	}

	client, err := s.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(s.buildPayload(msg))); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}

// connect opens the SMTP session: implicit TLS on 465, STARTTLS on
// everything else (587 in practice).
func (s *smtpSender) connect() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	tlsCfg := &tls.Config{ServerName: s.host}

	if s.port == 465 {
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return nil, fmt.Errorf("smtp tls dial %s: %w", addr, err)
		}
		client, err := smtp.NewClient(conn, s.host)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("smtp handshake %s: %w", addr, err)
		}
		return client, nil
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if err := client.StartTLS(tlsCfg); err != nil {
		client.Close()
		return nil, fmt.Errorf("smtp starttls %s: %w", addr, err)
	}
	return client, nil
}

// buildPayload assembles a multipart/alternative MIME message with the text
// part first so HTML wins in capable clients.
func (s *smtpSender) buildPayload(msg port.Message) string {
	const boundary = "vendido-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.fromName), s.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	text := msg.TextBody
	if text == "" {
		text = "Este mensaje requiere un cliente de correo con soporte HTML."
	}
	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
