package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// recomputeBalance rewrites the account balance as the full signed sum of
// its transactions. A full recompute converges even after out-of-order
// edits, unlike incremental patches. Runs inside the caller's transaction.
func recomputeBalance(ctx context.Context, tx *sql.Tx, userUID string, accountID int64) error {
	query := `UPDATE accounts
			  SET balance = COALESCE((
			      SELECT SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END)
			      FROM transactions
			      WHERE account_id = $1 AND user_uid = $2
			  ), 0)
			  WHERE id = $1 AND user_uid = $2`
	_, err := tx.ExecContext(ctx, query, accountID, userUID)
	return err
}

// CreateTransaction inserts a transaction and recomputes the affected
// account balance in the same database transaction.
func (s *Storage) CreateTransaction(ctx context.Context, t models.Transaction) (int64, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO transactions (user_uid, account_id, account_name, description,
			      amount, type, category, date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	if err := tx.QueryRowContext(ctx, query,
		t.UserUID, t.AccountID, t.AccountName, t.Description, t.Amount, t.Type,
		t.Category, t.Date).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := recomputeBalance(ctx, tx, t.UserUID, t.AccountID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListAllTransactions returns every transaction of the user in ledger order
// (oldest first). Used by the report export, which has no pagination.
func (s *Storage) ListAllTransactions(ctx context.Context, userUID string) ([]*models.Transaction, error) {
	const op = "storage.ListAllTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, account_id, account_name, description, amount, type,
			      category, date, created_at
			  FROM transactions
			  WHERE user_uid = $1
			  ORDER BY date, id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserUID, &t.AccountID, &t.AccountName, &t.Description,
			&t.Amount, &t.Type, &t.Category, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetTransaction returns one transaction scoped to the user.
func (s *Storage) GetTransaction(ctx context.Context, userUID string, id int64) (*models.Transaction, error) {
	const op = "storage.GetTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, account_id, account_name, description, amount, type,
			      category, date, created_at
			  FROM transactions
			  WHERE id = $1 AND user_uid = $2`
	var t models.Transaction
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&t.ID, &t.UserUID, &t.AccountID, &t.AccountName, &t.Description,
		&t.Amount, &t.Type, &t.Category, &t.Date, &t.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &t, nil
}

// ListTransactions returns the user's transactions, newest first, paginated.
func (s *Storage) ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, account_id, account_name, description, amount, type,
			      category, date, created_at
			  FROM transactions
			  WHERE user_uid = $1
			  ORDER BY date DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserUID, &t.AccountID, &t.AccountName, &t.Description,
			&t.Amount, &t.Type, &t.Category, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateTransaction rewrites a transaction and recomputes the balances of
// both the previous and (when moved) the new account in one database
// transaction.
func (s *Storage) UpdateTransaction(ctx context.Context, userUID string, id int64, t models.Transaction) error {
	const op = "storage.UpdateTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var oldAccountID int64
	row := tx.QueryRowContext(ctx,
		`SELECT account_id FROM transactions WHERE id = $1 AND user_uid = $2 FOR UPDATE`,
		id, userUID)
	if err := row.Scan(&oldAccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE transactions
			  SET account_id = $1, account_name = $2, description = $3, amount = $4,
			      type = $5, category = $6, date = $7
			  WHERE id = $8 AND user_uid = $9`
	if _, err := tx.ExecContext(ctx, query,
		t.AccountID, t.AccountName, t.Description, t.Amount, t.Type, t.Category,
		t.Date, id, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := recomputeBalance(ctx, tx, userUID, oldAccountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if t.AccountID != oldAccountID {
		if err := recomputeBalance(ctx, tx, userUID, t.AccountID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveTransaction deletes a transaction and recomputes the affected
// account balance in the same database transaction.
func (s *Storage) RemoveTransaction(ctx context.Context, userUID string, id int64) error {
	const op = "storage.RemoveTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var accountID int64
	row := tx.QueryRowContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_uid = $2 RETURNING account_id`,
		id, userUID)
	if err := row.Scan(&accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := recomputeBalance(ctx, tx, userUID, accountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SumExpensesByCategory sums the user's expense transactions in the category
// within [from, to). Drives budget consumption on the read path.
func (s *Storage) SumExpensesByCategory(ctx context.Context, userUID, category string, from, to time.Time) (int64, error) {
	const op = "storage.SumExpensesByCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM transactions
			  WHERE user_uid = $1
			    AND category = $2
			    AND type = 'expense'
			    AND date >= $3 AND date < $4`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, userUID, category, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
