package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// CreateDebt inserts a new debt and returns its ID.
func (s *Storage) CreateDebt(ctx context.Context, d models.Debt) (int64, error) {
	const op = "storage.CreateDebt"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO debts (user_uid, name, bank, total_value, paid_value,
			      monthly_installment, due_date, icon)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		d.UserUID, d.Name, d.Bank, d.TotalValue, d.PaidValue, d.MonthlyInstallment,
		d.DueDate, d.Icon).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetDebt returns one debt scoped to the user.
func (s *Storage) GetDebt(ctx context.Context, userUID string, id int64) (*models.Debt, error) {
	const op = "storage.GetDebt"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, bank, total_value, paid_value,
			      monthly_installment, due_date, icon, created_at
			  FROM debts
			  WHERE id = $1 AND user_uid = $2`
	var d models.Debt
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&d.ID, &d.UserUID, &d.Name, &d.Bank, &d.TotalValue, &d.PaidValue,
		&d.MonthlyInstallment, &d.DueDate, &d.Icon, &d.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &d, nil
}

// ListDebts returns all debts of the user.
func (s *Storage) ListDebts(ctx context.Context, userUID string) ([]*models.Debt, error) {
	const op = "storage.ListDebts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, bank, total_value, paid_value,
			      monthly_installment, due_date, icon, created_at
			  FROM debts
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Debt
	for rows.Next() {
		var d models.Debt
		if err := rows.Scan(&d.ID, &d.UserUID, &d.Name, &d.Bank, &d.TotalValue, &d.PaidValue,
			&d.MonthlyInstallment, &d.DueDate, &d.Icon, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateDebt rewrites the descriptive fields of the user's debt. Paid value
// only moves through AddDebtPayment.
func (s *Storage) UpdateDebt(ctx context.Context, userUID string, id int64, d models.Debt) error {
	const op = "storage.UpdateDebt"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE debts
			  SET name = $1, bank = $2, total_value = $3, monthly_installment = $4,
			      due_date = $5, icon = $6
			  WHERE id = $7 AND user_uid = $8`
	res, err := s.DB.ExecContext(ctx, query,
		d.Name, d.Bank, d.TotalValue, d.MonthlyInstallment, d.DueDate, d.Icon, id, userUID)
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

// AddDebtPayment applies a payment atomically, guarded so paid_value never
// exceeds total_value. Zero rows either means the debt does not exist for
// this user or the payment would overshoot; the second select disambiguates
// for the error message without weakening the guard.
func (s *Storage) AddDebtPayment(ctx context.Context, userUID string, id int64, amount int64) (*models.Debt, error) {
	const op = "storage.AddDebtPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE debts
			  SET paid_value = paid_value + $1
			  WHERE id = $2 AND user_uid = $3 AND paid_value + $1 <= total_value
			  RETURNING id, user_uid, name, bank, total_value, paid_value,
			      monthly_installment, due_date, icon, created_at`
	var d models.Debt
	row := s.DB.QueryRowContext(ctx, query, amount, id, userUID)
	err := row.Scan(&d.ID, &d.UserUID, &d.Name, &d.Bank, &d.TotalValue, &d.PaidValue,
		&d.MonthlyInstallment, &d.DueDate, &d.Icon, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := s.GetDebt(ctx, userUID, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%s: %w", op,
			&errs.ValidationError{Field: "amount", Reason: "payment exceeds outstanding debt"})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &d, nil
}

// RemoveDebt deletes the user's debt.
func (s *Storage) RemoveDebt(ctx context.Context, userUID string, id int64) error {
	const op = "storage.RemoveDebt"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM debts WHERE id = $1 AND user_uid = $2`, id, userUID)
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
