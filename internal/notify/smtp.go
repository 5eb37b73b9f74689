package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSink sends plain-text mail via unauthenticated SMTP (a local relay such
// as Mailpit in development).
type SMTPSink struct {
	addr string
	from string
}

func NewSMTPSink(host, port, from string) *SMTPSink {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@quedee.local"
	}
	return &SMTPSink{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

func (s *SMTPSink) Send(ctx context.Context, to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message, enough for most relays. UTF-8 body because
	// the templates are bilingual.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
