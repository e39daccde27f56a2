// Package notification implements the in-app notification list and the
// Alerter, the single path through which other services raise alerts. An
// alert always creates an in-app notification; it also publishes an email
// event when the user has email notifications enabled.
package notification

import (
	"context"
	"log/slog"

	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Repository defines the notification storage methods the service needs.
type Repository interface {
	CreateNotification(ctx context.Context, n models.Notification) (int64, error)
	ListNotifications(ctx context.Context, userUID string, limit, offset int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userUID string, id int64) error
	RemoveNotification(ctx context.Context, userUID string, id int64) error
}

// SettingsProvider reads the user's preferences to gate email publishing.
type SettingsProvider interface {
	GetSettings(ctx context.Context, userUID string) (*models.Settings, error)
}

// EmailPublisher publishes rendered email events to the broker.
type EmailPublisher interface {
	PublishEmail(message any) error
}

// Service implements notification listing and alert fan-out.
type Service struct {
	repo      Repository
	settings  SettingsProvider
	publisher EmailPublisher
	log       *slog.Logger
}

// New creates a new notification Service.
func New(repo Repository, settings SettingsProvider, publisher EmailPublisher, log *slog.Logger) *Service {
	return &Service{repo: repo, settings: settings, publisher: publisher, log: log}
}

// Alert records an in-app notification and, when the user allows it,
// publishes a matching email event. Broker failures are logged, not
// propagated: the in-app notification is the system of record.
func (s *Service) Alert(ctx context.Context, user *models.User, title, message, typ string, important bool) error {
	if _, err := s.repo.CreateNotification(ctx, models.Notification{
		UserUID:   user.UID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Important: important,
	}); err != nil {
		return err
	}

	settings, err := s.settings.GetSettings(ctx, user.UID)
	if err != nil {
		s.log.Warn("failed to load settings, skipping email", sl.Err(err))
		return nil
	}
	if !settings.EmailNotifications {
		return nil
	}

	if err := s.publisher.PublishEmail(models.EmailEvent{
		UserUID: user.UID,
		Email:   user.Email,
		Subject: title,
		Body:    message,
	}); err != nil {
		s.log.Error("failed to publish email event", sl.Err(err))
	}
	return nil
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Notification, error) {
	return s.repo.ListNotifications(ctx, userUID, limit, offset)
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userUID string, id int64) error {
	return s.repo.MarkNotificationRead(ctx, userUID, id)
}

// Remove deletes one of the user's notifications.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	return s.repo.RemoveNotification(ctx, userUID, id)
}
