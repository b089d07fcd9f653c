// Package email relays transactional messages through SendGrid when
// configured, SMTP as the second choice, and a console fallback for
// development so flows never block on mail infrastructure.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shopfolio/internal/platform/config"
	"shopfolio/internal/platform/metrics"
	dErrors "shopfolio/pkg/domain-errors"
)

// Message is one transactional email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// Result reports a dispatched message. Fallback marks console delivery.
type Result struct {
	MessageID string `json:"messageId"`
	Fallback  bool   `json:"fallback,omitempty"`
}

// Service picks the first configured provider per message.
type Service struct {
	cfg     config.Email
	log     *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time

	// sendGrid is swappable for tests.
	sendGrid func(ctx context.Context, cfg config.Email, msg Message) (string, error)
	sendSMTP func(ctx context.Context, cfg config.Email, msg Message) (string, error)
}

// New constructs the relay service.
func New(cfg config.Email, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		cfg:      cfg,
		log:      log,
		metrics:  m,
		clock:    time.Now,
		sendGrid: sendWithSendGrid,
		sendSMTP: sendWithSMTP,
	}
}

// Send validates and dispatches msg. Missing to/subject/html is rejected
// before any side effect.
func (s *Service) Send(ctx context.Context, msg Message) (Result, error) {
	if msg.To == "" || msg.Subject == "" || msg.HTML == "" {
		return Result{}, dErrors.New(dErrors.CodeBadRequest, "Missing required fields: to, subject, html")
	}
	if msg.Kind == "" {
		msg.Kind = "transactional"
	}

	switch {
	case s.cfg.SendGridAPIKey != "" && s.cfg.FromEmail != "":
		id, err := s.sendGrid(ctx, s.cfg, msg)
		if err != nil {
			s.metrics.EmailsSent.WithLabelValues("sendgrid", "failure").Inc()
			s.log.Error("sendgrid dispatch failed", "to", msg.To, "error", err)
			return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "Failed to send email")
		}
		s.metrics.EmailsSent.WithLabelValues("sendgrid", "success").Inc()
		return Result{MessageID: id}, nil

	case s.cfg.SMTPHost != "" && s.cfg.FromEmail != "":
		id, err := s.sendSMTP(ctx, s.cfg, msg)
		if err != nil {
			s.metrics.EmailsSent.WithLabelValues("smtp", "failure").Inc()
			s.log.Error("smtp dispatch failed", "to", msg.To, "error", err)
			return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "Failed to send email")
		}
		s.metrics.EmailsSent.WithLabelValues("smtp", "success").Inc()
		return Result{MessageID: id}, nil

	default:
		// No provider configured: log the message so development flows keep
		// moving.
		s.log.Warn("email provider not configured, logging message",
			"to", msg.To, "subject", msg.Subject, "kind", msg.Kind)
		s.metrics.EmailsSent.WithLabelValues("console", "success").Inc()
		return Result{
			MessageID: fmt.Sprintf("dev-%d", s.clock().UnixMilli()),
			Fallback:  true,
		}, nil
	}
}

// SendVerificationEmail dispatches the account-verification template. It
// satisfies the directory provider's Mailer contract.
func (s *Service) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	_, err := s.Send(ctx, verificationMessage(to, name, token))
	return err
}

// SendPasswordResetEmail dispatches the password-reset template.
func (s *Service) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	_, err := s.Send(ctx, passwordResetMessage(to, name, token))
	return err
}
