package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// CreateAccount inserts a new account for the user, guarded by the plan's
// account limit in the same statement: the insert only happens while the
// current count is below maxAccounts, so two racing creates cannot both
// pass the quota check.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account, maxAccounts int) (int64, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO accounts (user_uid, name, type, bank, balance)
			  SELECT $1, $2, $3, $4, 0
			  WHERE (SELECT COUNT(*) FROM accounts WHERE user_uid = $1) < $5
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		account.UserUID, account.Name, account.Type, account.Bank, maxAccounts).Scan(&newID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, &errs.QuotaExceededError{Resource: "accounts", Limit: maxAccounts})
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAccount returns one account scoped to the user.
func (s *Storage) GetAccount(ctx context.Context, userUID string, id int64) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, type, bank, balance, created_at
			  FROM accounts
			  WHERE id = $1 AND user_uid = $2`
	var a models.Account
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&a.ID, &a.UserUID, &a.Name, &a.Type, &a.Bank, &a.Balance,
		&a.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &a, nil
}

// GetAccountByName looks an account up by display name. Compatibility shim
// for historical name-based references; the id link is authoritative.
func (s *Storage) GetAccountByName(ctx context.Context, userUID, name string) (*models.Account, error) {
	const op = "storage.GetAccountByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, type, bank, balance, created_at
			  FROM accounts
			  WHERE user_uid = $1 AND name = $2
			  ORDER BY id
			  LIMIT 1`
	var a models.Account
	row := s.DB.QueryRowContext(ctx, query, userUID, name)
	if err := row.Scan(&a.ID, &a.UserUID, &a.Name, &a.Type, &a.Bank, &a.Balance,
		&a.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &a, nil
}

// ListAccounts returns all accounts of the user in creation order.
func (s *Storage) ListAccounts(ctx context.Context, userUID string) ([]*models.Account, error) {
	const op = "storage.ListAccounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, type, bank, balance, created_at
			  FROM accounts
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserUID, &a.Name, &a.Type, &a.Bank, &a.Balance,
			&a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountAccounts returns the user's account count for quota decisions.
func (s *Storage) CountAccounts(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountAccounts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE user_uid = $1`, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateAccount updates name, type and bank of the user's account. The
// stored balance is never written here; only the aggregation path does.
func (s *Storage) UpdateAccount(ctx context.Context, userUID string, id int64, account models.Account) error {
	const op = "storage.UpdateAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET name = $1, type = $2, bank = $3
			  WHERE id = $4 AND user_uid = $5`
	res, err := s.DB.ExecContext(ctx, query, account.Name, account.Type, account.Bank, id, userUID)
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

// RemoveAccount deletes the user's account. Historical transactions keep
// their account_id as an orphaned reference.
func (s *Storage) RemoveAccount(ctx context.Context, userUID string, id int64) error {
	const op = "storage.RemoveAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = $1 AND user_uid = $2`, id, userUID)
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
