package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	profileURL := fmt.Sprintf("%s/profile", s.appURL)
	subject, body := welcomeEmailTemplate(name, profileURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "welcome", "to", email, "subject", subject, "url", profileURL)
		return nil
	}

	return s.send(ctx, "welcome", email, subject, body)
}

// SendEmailChangedEmail notifies the previous address that the account email was changed.
func (s *EmailService) SendEmailChangedEmail(ctx context.Context, oldEmail, newEmail, name string) error {
	subject, body := emailChangedTemplate(name, newEmail, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "email_changed", "to", oldEmail, "new_email", newEmail)
		return nil
	}

	return s.send(ctx, "email_changed", oldEmail, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
