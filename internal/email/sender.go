package email

import (
	"context"
	"errors"
)

// Sender delivers the email-verification message after sign-up.
type Sender interface {
	SendVerificationLink(ctx context.Context, toEmail, displayName, link string) error
}

type disabledSender struct {
	reason string
}

// NewDisabledSender is the fallback when SMTP is not configured.
func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendVerificationLink(_ context.Context, _, _, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
