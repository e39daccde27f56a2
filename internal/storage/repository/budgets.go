package repository

import (
	"context"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// CreateBudgetLimit inserts a budget limit. The (user, category) pair is
// unique; a duplicate surfaces as errs.ErrAlreadyExists.
func (s *Storage) CreateBudgetLimit(ctx context.Context, b models.BudgetLimit) (int64, error) {
	const op = "storage.CreateBudgetLimit"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO budget_limits (user_uid, category, limit_amount)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		b.UserUID, b.Category, b.LimitAmount).Scan(&newID); err != nil {
		return 0, mapErr(op, err)
	}
	return newID, nil
}

// GetBudgetLimit returns one budget limit scoped to the user.
func (s *Storage) GetBudgetLimit(ctx context.Context, userUID string, id int64) (*models.BudgetLimit, error) {
	const op = "storage.GetBudgetLimit"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, category, limit_amount, last_notified_period
			  FROM budget_limits
			  WHERE id = $1 AND user_uid = $2`
	var b models.BudgetLimit
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&b.ID, &b.UserUID, &b.Category, &b.LimitAmount,
		&b.LastNotifiedPeriod); err != nil {
		return nil, mapErr(op, err)
	}
	return &b, nil
}

// ListBudgetLimits returns all budget limits of the user.
func (s *Storage) ListBudgetLimits(ctx context.Context, userUID string) ([]*models.BudgetLimit, error) {
	const op = "storage.ListBudgetLimits"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, category, limit_amount, last_notified_period
			  FROM budget_limits
			  WHERE user_uid = $1
			  ORDER BY category`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.BudgetLimit
	for rows.Next() {
		var b models.BudgetLimit
		if err := rows.Scan(&b.ID, &b.UserUID, &b.Category, &b.LimitAmount,
			&b.LastNotifiedPeriod); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBudgetLimit rewrites the ceiling of the user's budget limit.
func (s *Storage) UpdateBudgetLimit(ctx context.Context, userUID string, id int64, limitAmount int64) error {
	const op = "storage.UpdateBudgetLimit"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE budget_limits SET limit_amount = $1 WHERE id = $2 AND user_uid = $3`,
		limitAmount, id, userUID)
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

// MarkBudgetNotified stamps the period an over-limit warning was emitted
// for, but only when the stamp still differs: the WHERE clause makes the
// once-per-period guarantee hold even for concurrent status reads. Returns
// true when this call won the stamp.
func (s *Storage) MarkBudgetNotified(ctx context.Context, userUID string, id int64, period string) (bool, error) {
	const op = "storage.MarkBudgetNotified"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE budget_limits
		 SET last_notified_period = $1
		 WHERE id = $2 AND user_uid = $3 AND last_notified_period <> $1`,
		period, id, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected == 1, nil
}

// RemoveBudgetLimit deletes the user's budget limit.
func (s *Storage) RemoveBudgetLimit(ctx context.Context, userUID string, id int64) error {
	const op = "storage.RemoveBudgetLimit"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM budget_limits WHERE id = $1 AND user_uid = $2`, id, userUID)
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
