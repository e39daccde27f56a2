// Package sender delivers queued alert emails over SMTP. Each event is sent
// through the recipient's own mail configuration when one exists, otherwise
// through the instance-wide defaults.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/lib/smtp"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// EmailSettingsProvider reads the recipient's outbound mail configuration.
type EmailSettingsProvider interface {
	GetEmailSettings(ctx context.Context, userUID string) (*models.EmailSettings, error)
}

// Service consumes email events from the broker and ships them over SMTP.
type Service struct {
	settings  EmailSettingsProvider
	transport smtp.TransportInterface
	defaults  smtp.Settings
	log       *slog.Logger
}

// New creates a new sender Service. defaults is used for any recipient
// without EmailSettings of their own.
func New(settings EmailSettingsProvider, transport smtp.TransportInterface, defaults smtp.Settings, log *slog.Logger) *Service {
	return &Service{settings: settings, transport: transport, defaults: defaults, log: log}
}

// ProcessMessage handles one raw broker delivery. A malformed body can never
// become parseable, so it is logged and acked away instead of being nacked
// back onto the queue.
func (s *Service) ProcessMessage(body []byte) error {
	var event models.EmailEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("dropping malformed email event", sl.Err(err))
		return nil
	}
	return s.Send(context.Background(), event)
}

// Send delivers one email event.
func (s *Service) Send(ctx context.Context, event models.EmailEvent) error {
	settings := s.resolveSettings(ctx, event.UserUID)

	msg := strings.Join([]string{
		"From: " + settings.FromEmail,
		"To: " + event.Email,
		"Subject: " + event.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		event.Body,
	}, "\r\n")

	client, err := s.transport.Connect(settings)
	if err != nil {
		return &errs.ExternalServiceError{Service: "smtp", Err: err}
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.log.Debug("failed to close SMTP client", sl.Err(closeErr))
		}
	}()

	if err := client.Mail(settings.FromEmail); err != nil {
		return &errs.ExternalServiceError{Service: "smtp", Err: err}
	}
	if err := client.Rcpt(event.Email); err != nil {
		return &errs.ExternalServiceError{Service: "smtp", Err: err}
	}

	wc, err := client.Data()
	if err != nil {
		return &errs.ExternalServiceError{Service: "smtp", Err: err}
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return &errs.ExternalServiceError{Service: "smtp", Err: err}
	}
	if err := wc.Close(); err != nil {
		return &errs.ExternalServiceError{Service: "smtp", Err: err}
	}
	if err := client.Quit(); err != nil {
		return &errs.ExternalServiceError{Service: "smtp", Err: err}
	}

	s.log.Info("email sent", slog.String("to", event.Email), slog.String("subject", event.Subject))
	return nil
}

// resolveSettings prefers the recipient's own mail configuration and falls
// back to the instance defaults when none exists.
func (s *Service) resolveSettings(ctx context.Context, userUID string) smtp.Settings {
	es, err := s.settings.GetEmailSettings(ctx, userUID)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			s.log.Warn("failed to load email settings, using defaults", sl.Err(err))
		}
		return s.defaults
	}
	return smtp.Settings{
		Host:      es.Host,
		Port:      es.Port,
		User:      es.Username,
		Pass:      es.Password,
		FromEmail: es.FromEmail,
		Secure:    es.Secure,
	}
}
