package repository

import (
	"context"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// CreateGoal inserts a new goal and returns its ID.
func (s *Storage) CreateGoal(ctx context.Context, g models.Goal) (int64, error) {
	const op = "storage.CreateGoal"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO goals (user_uid, title, target_amount, current_amount, deadline, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		g.UserUID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline,
		g.Status).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetGoal returns one goal scoped to the user.
func (s *Storage) GetGoal(ctx context.Context, userUID string, id int64) (*models.Goal, error) {
	const op = "storage.GetGoal"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, target_amount, current_amount, deadline, status, created_at
			  FROM goals
			  WHERE id = $1 AND user_uid = $2`
	var g models.Goal
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&g.ID, &g.UserUID, &g.Title, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &g.Status, &g.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &g, nil
}

// ListGoals returns all goals of the user in creation order.
func (s *Storage) ListGoals(ctx context.Context, userUID string) ([]*models.Goal, error) {
	const op = "storage.ListGoals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, target_amount, current_amount, deadline, status, created_at
			  FROM goals
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserUID, &g.Title, &g.TargetAmount, &g.CurrentAmount,
			&g.Deadline, &g.Status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateGoal rewrites title, target amount and deadline of the user's goal.
// Lowering the target to or below the saved amount completes the goal;
// completion never reverts.
func (s *Storage) UpdateGoal(ctx context.Context, userUID string, id int64, g models.Goal) error {
	const op = "storage.UpdateGoal"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE goals
			  SET title = $1, target_amount = $2, deadline = $3,
			      status = CASE
			          WHEN status = 'completed' THEN 'completed'
			          WHEN current_amount >= $2 THEN 'completed'
			          ELSE 'active'
			      END
			  WHERE id = $4 AND user_uid = $5`
	res, err := s.DB.ExecContext(ctx, query, g.Title, g.TargetAmount, g.Deadline, id, userUID)
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

// AddGoalContribution applies a contribution atomically. Status flips to
// completed the first time current_amount reaches target_amount and never
// flips back, even when a reversal later lowers the amount.
func (s *Storage) AddGoalContribution(ctx context.Context, userUID string, id int64, amount int64) (*models.Goal, error) {
	const op = "storage.AddGoalContribution"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE goals
			  SET current_amount = current_amount + $1,
			      status = CASE
			          WHEN status = 'completed' THEN 'completed'
			          WHEN current_amount + $1 >= target_amount THEN 'completed'
			          ELSE 'active'
			      END
			  WHERE id = $2 AND user_uid = $3
			  RETURNING id, user_uid, title, target_amount, current_amount, deadline, status, created_at`
	var g models.Goal
	row := s.DB.QueryRowContext(ctx, query, amount, id, userUID)
	if err := row.Scan(&g.ID, &g.UserUID, &g.Title, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &g.Status, &g.CreatedAt); err != nil {
		return nil, mapErr(op, err)
	}
	return &g, nil
}

// RemoveGoal deletes the user's goal.
func (s *Storage) RemoveGoal(ctx context.Context, userUID string, id int64) error {
	const op = "storage.RemoveGoal"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_uid = $2`, id, userUID)
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
