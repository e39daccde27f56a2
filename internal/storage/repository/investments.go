package repository

import (
	"context"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// CreateInvestment inserts a new investment position and returns its ID.
func (s *Storage) CreateInvestment(ctx context.Context, inv models.Investment) (int64, error) {
	const op = "storage.CreateInvestment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO investments (user_uid, ticker, name, type, quantity, unit_price)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		inv.UserUID, inv.Ticker, inv.Name, inv.Type, inv.Quantity.String(),
		inv.UnitPrice.String()).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetInvestment returns one investment scoped to the user.
func (s *Storage) GetInvestment(ctx context.Context, userUID string, id int64) (*models.Investment, error) {
	const op = "storage.GetInvestment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, ticker, name, type, quantity, unit_price, created_at
			  FROM investments
			  WHERE id = $1 AND user_uid = $2`
	var inv models.Investment
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&inv.ID, &inv.UserUID, &inv.Ticker, &inv.Name, &inv.Type,
		&inv.Quantity, &inv.UnitPrice, &inv.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &inv, nil
}

// ListInvestments returns all investments of the user.
func (s *Storage) ListInvestments(ctx context.Context, userUID string) ([]*models.Investment, error) {
	const op = "storage.ListInvestments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, ticker, name, type, quantity, unit_price, created_at
			  FROM investments
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.UserUID, &inv.Ticker, &inv.Name, &inv.Type,
			&inv.Quantity, &inv.UnitPrice, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateInvestment rewrites the user's investment position.
func (s *Storage) UpdateInvestment(ctx context.Context, userUID string, id int64, inv models.Investment) error {
	const op = "storage.UpdateInvestment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE investments
			  SET ticker = $1, name = $2, type = $3, quantity = $4, unit_price = $5
			  WHERE id = $6 AND user_uid = $7`
	res, err := s.DB.ExecContext(ctx, query,
		inv.Ticker, inv.Name, inv.Type, inv.Quantity.String(), inv.UnitPrice.String(),
		id, userUID)
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

// RemoveInvestment deletes the user's investment.
func (s *Storage) RemoveInvestment(ctx context.Context, userUID string, id int64) error {
	const op = "storage.RemoveInvestment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM investments WHERE id = $1 AND user_uid = $2`, id, userUID)
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
