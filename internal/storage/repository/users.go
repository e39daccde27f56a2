package repository

import (
	"context"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// RegisterUser stores a new user together with their default settings row.
// Both inserts run in one transaction.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO users (uid, email, username, name, password_hash, role, package_key)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid`
	if err := tx.QueryRowContext(ctx, query,
		user.UID, user.Email, user.Username, user.Name, user.PasswordHash, user.Role,
		user.PackageKey).Scan(&newUID); err != nil {
		return "", mapErr(op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (user_uid) VALUES ($1)`, newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername returns a user by their unique username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, name, password_hash, role, package_key, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.Name, &u.PasswordHash,
		&u.Role, &u.PackageKey, &u.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// GetUser returns a user by UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, name, password_hash, role, package_key, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.Name, &u.PasswordHash,
		&u.Role, &u.PackageKey, &u.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// PromoteAdminByEmail sets role=admin on the user matching the email
// case-insensitively. Returns errs.ErrNotFound when no user matches.
func (s *Storage) PromoteAdminByEmail(ctx context.Context, email string) error {
	const op = "storage.PromoteAdminByEmail"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = 'admin' WHERE lower(email) = lower($1)`
	res, err := s.DB.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}
