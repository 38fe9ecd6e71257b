// Package email provides outbound email delivery over SMTP.
package email

import (
	"context"

	"educater_backend/platform/config"
)

// Sender is the outbound email port used by the rest of the application.
type Sender interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error
	// SendOutreachEmail delivers a rendered sales template to a school
	// contact.
	SendOutreachEmail(ctx context.Context, toEmail, subject, htmlContent string) error
	SendIncentiveAnnouncementEmail(ctx context.Context, toEmail, title, description string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender drops every email. Used when SMTP is not configured so the rest
// of the app never has to nil-check the sender.
type NoopSender struct{}

func (NoopSender) SendPasswordResetEmail(context.Context, string, string) error { return nil }

func (NoopSender) SendOutreachEmail(context.Context, string, string, string) error { return nil }

func (NoopSender) SendIncentiveAnnouncementEmail(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendCustomEmail(context.Context, string, string, string) error { return nil }

// NewSender returns the SMTP sender when email is configured, otherwise the
// noop sender.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
