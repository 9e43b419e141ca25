package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers mail over SMTP with plain auth.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}, nil
}

func (s *SMTPSender) SendVerificationLink(_ context.Context, toEmail, displayName, link string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}
	if strings.TrimSpace(link) == "" {
		return fmt.Errorf("verification link is required")
	}

	greeting := "Hello"
	if name := strings.TrimSpace(displayName); name != "" {
		greeting = "Hello " + name
	}

	subject := "Verify your email"
	body := fmt.Sprintf(
		"%s,\n\nPlease verify your email before signing in:\n\n%s\n\nIf you did not create this account, ignore this message.\n",
		greeting, link,
	)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.fromName, s.from),
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{toEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}
