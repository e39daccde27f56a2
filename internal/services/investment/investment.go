// Package investment implements investment positions. Quantity and unit
// price are decimals; the current value is computed on read and never
// stored, so it cannot drift from its inputs.
package investment

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Repository defines the investment storage methods the service needs.
type Repository interface {
	CreateInvestment(ctx context.Context, inv models.Investment) (int64, error)
	GetInvestment(ctx context.Context, userUID string, id int64) (*models.Investment, error)
	ListInvestments(ctx context.Context, userUID string) ([]*models.Investment, error)
	UpdateInvestment(ctx context.Context, userUID string, id int64, inv models.Investment) error
	RemoveInvestment(ctx context.Context, userUID string, id int64) error
}

// Service implements investment business logic.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New creates a new investment Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func parseAmounts(req models.DummyInvestment) (quantity, unitPrice decimal.Decimal, err error) {
	quantity, err = decimal.NewFromString(req.Quantity)
	if err != nil {
		return decimal.Zero, decimal.Zero, &errs.ValidationError{Field: "quantity", Reason: "must be a decimal number"}
	}
	if quantity.IsNegative() {
		return decimal.Zero, decimal.Zero, &errs.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	unitPrice, err = decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return decimal.Zero, decimal.Zero, &errs.ValidationError{Field: "unit_price", Reason: "must be a decimal number"}
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, decimal.Zero, &errs.ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	return quantity, unitPrice, nil
}

// Create adds a new position.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyInvestment) (int64, error) {
	quantity, unitPrice, err := parseAmounts(req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateInvestment(ctx, models.Investment{
		UserUID:   userUID,
		Ticker:    req.Ticker,
		Name:      req.Name,
		Type:      req.Type,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created investment", slog.Int64("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// Get returns one of the user's positions.
func (s *Service) Get(ctx context.Context, userUID string, id int64) (*models.Investment, error) {
	return s.repo.GetInvestment(ctx, userUID, id)
}

// List returns all positions of the user.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Investment, error) {
	return s.repo.ListInvestments(ctx, userUID)
}

// Update rewrites the user's position.
func (s *Service) Update(ctx context.Context, userUID string, id int64, req models.DummyInvestment) error {
	quantity, unitPrice, err := parseAmounts(req)
	if err != nil {
		return err
	}
	return s.repo.UpdateInvestment(ctx, userUID, id, models.Investment{
		Ticker:    req.Ticker,
		Name:      req.Name,
		Type:      req.Type,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// Remove deletes the user's position.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	return s.repo.RemoveInvestment(ctx, userUID, id)
}
