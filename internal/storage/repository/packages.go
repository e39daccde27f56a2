package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vitaleevo/holyfinance/internal/models"
)

// SeedPackages inserts the given packages if and only if the packages table
// is empty. The count check and the inserts share one transaction, so the
// seed either applies completely or not at all and repeated invocations are
// no-ops.
func (s *Storage) SeedPackages(ctx context.Context, pkgs []models.Package) error {
	const op = "storage.SeedPackages"
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

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`).Scan(&count); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return nil
	}

	query := `INSERT INTO packages (key, name, description, price_monthly, price_yearly,
			      price_biyearly, max_accounts, max_family_members, features, is_active,
			      highlight, sort_order)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, p := range pkgs {
		features, err := json.Marshal(p.Features)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			p.Key, p.Name, p.Description, p.PriceMonthly, p.PriceYearly, p.PriceBiyearly,
			p.MaxAccounts, p.MaxFamilyMembers, features, p.IsActive, p.Highlight,
			p.SortOrder); err != nil {
			return mapErr(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListActivePackages returns active packages in seed order.
func (s *Storage) ListActivePackages(ctx context.Context) ([]*models.Package, error) {
	const op = "storage.ListActivePackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, key, name, description, price_monthly, price_yearly,
			      price_biyearly, max_accounts, max_family_members, features, is_active,
			      highlight, sort_order
			  FROM packages
			  WHERE is_active = true
			  ORDER BY sort_order`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Package
	for rows.Next() {
		var p models.Package
		var features []byte
		if err := rows.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.PriceMonthly,
			&p.PriceYearly, &p.PriceBiyearly, &p.MaxAccounts, &p.MaxFamilyMembers,
			&features, &p.IsActive, &p.Highlight, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPackageByKey returns a package by its unique key.
func (s *Storage) GetPackageByKey(ctx context.Context, key string) (*models.Package, error) {
	const op = "storage.GetPackageByKey"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, key, name, description, price_monthly, price_yearly,
			      price_biyearly, max_accounts, max_family_members, features, is_active,
			      highlight, sort_order
			  FROM packages
			  WHERE key = $1`
	var p models.Package
	var features []byte
	row := s.DB.QueryRowContext(ctx, query, key)
	if err := row.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.PriceMonthly,
		&p.PriceYearly, &p.PriceBiyearly, &p.MaxAccounts, &p.MaxFamilyMembers,
		&features, &p.IsActive, &p.Highlight, &p.SortOrder); err != nil {
		return nil, mapErr(op, err)
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
