package repository

import (
	"context"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/models"
)

// GetSettings returns the user's settings row. The row is created together
// with the user, so a miss means the caller is not a known tenant.
func (s *Storage) GetSettings(ctx context.Context, userUID string) (*models.Settings, error) {
	const op = "storage.GetSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, theme, email_notifications, privacy_mode
			  FROM settings
			  WHERE user_uid = $1`
	var st models.Settings
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&st.UserUID, &st.Theme, &st.EmailNotifications, &st.PrivacyMode); err != nil {
		return nil, mapErr(op, err)
	}
	return &st, nil
}

// UpdateSettings rewrites the user's settings row.
func (s *Storage) UpdateSettings(ctx context.Context, st models.Settings) error {
	const op = "storage.UpdateSettings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (user_uid, theme, email_notifications, privacy_mode)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET theme = $2, email_notifications = $3, privacy_mode = $4`
	if _, err := s.DB.ExecContext(ctx, query,
		st.UserUID, st.Theme, st.EmailNotifications, st.PrivacyMode); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetEmailSettings returns the user's outbound mail configuration.
func (s *Storage) GetEmailSettings(ctx context.Context, userUID string) (*models.EmailSettings, error) {
	const op = "storage.GetEmailSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, host, port, username, password, from_email, secure
			  FROM email_settings
			  WHERE user_uid = $1`
	var es models.EmailSettings
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&es.UserUID, &es.Host, &es.Port, &es.Username, &es.Password,
		&es.FromEmail, &es.Secure); err != nil {
		return nil, mapErr(op, err)
	}
	return &es, nil
}

// UpsertEmailSettings creates or rewrites the user's mail configuration.
func (s *Storage) UpsertEmailSettings(ctx context.Context, es models.EmailSettings) error {
	const op = "storage.UpsertEmailSettings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO email_settings (user_uid, host, port, username, password, from_email, secure)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET host = $2, port = $3, username = $4, password = $5, from_email = $6, secure = $7`
	if _, err := s.DB.ExecContext(ctx, query,
		es.UserUID, es.Host, es.Port, es.Username, es.Password, es.FromEmail,
		es.Secure); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
