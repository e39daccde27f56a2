package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vitaleevo/holyfinance/internal/models"
)

// CreateSession stores a new session. A token collision surfaces as
// errs.ErrAlreadyExists so the caller can regenerate.
func (s *Storage) CreateSession(ctx context.Context, session models.Session) error {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO sessions (token, user_uid, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		session.Token, session.UserUID, session.ExpiresAt); err != nil {
		return mapErr(op, err)
	}
	return nil
}

// GetSession returns the session for a token, expired or not; the caller
// decides what expiry means.
func (s *Storage) GetSession(ctx context.Context, token string) (*models.Session, error) {
	const op = "storage.GetSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT token, user_uid, expires_at, created_at
			  FROM sessions
			  WHERE token = $1`
	sess := &models.Session{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&sess.Token, &sess.UserUID, &sess.ExpiresAt, &sess.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return sess, nil
}

// DeleteSession removes a session by token.
func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	const op = "storage.DeleteSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry. Housekeeping
// only; validation rejects expired sessions whether or not this has run.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.DeleteExpiredSessions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
