package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// CreateFamilyMember inserts a family member guarded by the plan's member
// limit in the same statement, closing the check-then-act gap the same way
// CreateAccount does.
func (s *Storage) CreateFamilyMember(ctx context.Context, m models.FamilyMember, maxMembers int) (int64, error) {
	const op = "storage.CreateFamilyMember"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO family_members (user_uid, name, email)
			  SELECT $1, $2, $3
			  WHERE (SELECT COUNT(*) FROM family_members WHERE user_uid = $1) < $4
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		m.UserUID, m.Name, m.Email, maxMembers).Scan(&newID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op,
			&errs.QuotaExceededError{Resource: "family_members", Limit: maxMembers})
	}
	if err != nil {
		return 0, mapErr(op, err)
	}
	return newID, nil
}

// ListFamilyMembers returns all family members of the user.
func (s *Storage) ListFamilyMembers(ctx context.Context, userUID string) ([]*models.FamilyMember, error) {
	const op = "storage.ListFamilyMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, email, created_at
			  FROM family_members
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FamilyMember
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.UserUID, &m.Name, &m.Email, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountFamilyMembers returns the user's family member count for quota
// decisions.
func (s *Storage) CountFamilyMembers(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountFamilyMembers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM family_members WHERE user_uid = $1`, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// RemoveFamilyMember deletes the user's family member.
func (s *Storage) RemoveFamilyMember(ctx context.Context, userUID string, id int64) error {
	const op = "storage.RemoveFamilyMember"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM family_members WHERE id = $1 AND user_uid = $2`, id, userUID)
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
