// Package notify delivers best-effort email and SMS to customers and the
// admin. Delivery happens after the authoritative row mutation and its
// failures are logged, never surfaced to the caller.
package notify

import "context"

// Sink accepts one outbound email.
type Sink interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender accepts one outbound text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}
