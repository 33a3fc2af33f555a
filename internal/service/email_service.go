package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional emails. Both sends are best-effort from
// the flows' point of view: a failure is logged, never surfaced to the user.
type EmailService interface {
	SendWelcome(ctx context.Context, toEmail, name string) error
	SendAccountDeleted(ctx context.Context, toEmail, name string) error
}

// NoopEmailService is used when transactional email is disabled.
type NoopEmailService struct{}

func (s *NoopEmailService) SendWelcome(ctx context.Context, toEmail, name string) error {
	log.Printf("[EmailService] noop welcome email to=%s", toEmail)
	return nil
}

func (s *NoopEmailService) SendAccountDeleted(ctx context.Context, toEmail, name string) error {
	log.Printf("[EmailService] noop account-deleted email to=%s", toEmail)
	return nil
}

// ResendEmailService sends emails via the Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendWelcome(ctx context.Context, toEmail, name string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}
	greeting := strings.TrimSpace(name)
	if greeting == "" {
		greeting = "there"
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Welcome to your GLP-1 companion",
		Text:    fmt.Sprintf("Hi %s, your account is ready. Set up your first dose schedule in the app to get started.", greeting),
		Html:    fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Set up your first dose schedule in the app to get started.</p>", greeting),
	}
	return s.sendWithRetry(ctx, params, "")
}

func (s *ResendEmailService) SendAccountDeleted(ctx context.Context, toEmail, name string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}
	greeting := strings.TrimSpace(name)
	if greeting == "" {
		greeting = "there"
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Your account has been deleted",
		Text:    fmt.Sprintf("Hi %s, your account and all associated data have been permanently deleted. We're sorry to see you go.", greeting),
		Html:    fmt.Sprintf("<p>Hi %s,</p><p>Your account and all associated data have been permanently deleted. We're sorry to see you go.</p>", greeting),
	}
	return s.sendWithRetry(ctx, params, "")
}

func (s *ResendEmailService) sendWithRetry(ctx context.Context, params *resend.SendEmailRequest, idempotencyKey string) error {
	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(idempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(idempotencyKey)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
