package interfaces

import "context"

// MailService is the report delivery capability.
type MailService interface {
	// Send delivers a message with plain text and optional HTML body to the
	// configured recipient.
	Send(ctx context.Context, subject, textBody, htmlBody string) error

	// IsConfigured reports whether the delivery capability has the minimum
	// required settings.
	IsConfigured() bool
}
