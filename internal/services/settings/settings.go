// Package settings implements per-user preferences and the outbound mail
// configuration used by the notification sender.
package settings

import (
	"context"
	"log/slog"

	"github.com/vitaleevo/holyfinance/internal/models"
)

// Repository defines the settings storage methods the service needs.
type Repository interface {
	GetSettings(ctx context.Context, userUID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, st models.Settings) error
	GetEmailSettings(ctx context.Context, userUID string) (*models.EmailSettings, error)
	UpsertEmailSettings(ctx context.Context, es models.EmailSettings) error
}

// Service implements settings business logic.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New creates a new settings Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get returns the user's preferences.
func (s *Service) Get(ctx context.Context, userUID string) (*models.Settings, error) {
	return s.repo.GetSettings(ctx, userUID)
}

// Update rewrites the user's preferences.
func (s *Service) Update(ctx context.Context, userUID string, req models.DummySettings) error {
	err := s.repo.UpdateSettings(ctx, models.Settings{
		UserUID:            userUID,
		Theme:              req.Theme,
		EmailNotifications: req.EmailNotifications,
		PrivacyMode:        req.PrivacyMode,
	})
	if err != nil {
		return err
	}
	s.log.Info("updated settings", slog.String("user_uid", userUID))
	return nil
}

// GetEmail returns the user's outbound mail configuration. The password is
// stripped from the handler response, not here; the sender needs it intact.
func (s *Service) GetEmail(ctx context.Context, userUID string) (*models.EmailSettings, error) {
	return s.repo.GetEmailSettings(ctx, userUID)
}

// UpdateEmail creates or rewrites the user's mail configuration.
func (s *Service) UpdateEmail(ctx context.Context, userUID string, req models.DummyEmailSettings) error {
	err := s.repo.UpsertEmailSettings(ctx, models.EmailSettings{
		UserUID:   userUID,
		Host:      req.Host,
		Port:      req.Port,
		Username:  req.Username,
		Password:  req.Password,
		FromEmail: req.FromEmail,
		Secure:    req.Secure,
	})
	if err != nil {
		return err
	}
	s.log.Info("updated email settings", slog.String("user_uid", userUID))
	return nil
}
