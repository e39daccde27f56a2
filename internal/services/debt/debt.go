// Package debt implements debt tracking and the payment flow.
package debt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// DateFormat is the wire format of debt due dates.
const DateFormat = "02-01-2006"

// Repository defines the debt storage methods the service needs.
type Repository interface {
	CreateDebt(ctx context.Context, d models.Debt) (int64, error)
	GetDebt(ctx context.Context, userUID string, id int64) (*models.Debt, error)
	ListDebts(ctx context.Context, userUID string) ([]*models.Debt, error)
	UpdateDebt(ctx context.Context, userUID string, id int64, d models.Debt) error
	AddDebtPayment(ctx context.Context, userUID string, id int64, amount int64) (*models.Debt, error)
	RemoveDebt(ctx context.Context, userUID string, id int64) error
}

// Service implements debt business logic.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New creates a new debt Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func parseDueDate(raw string) (time.Time, error) {
	dueDate, err := time.Parse(DateFormat, raw)
	if err != nil {
		return time.Time{}, &errs.ValidationError{
			Field:  "due_date",
			Reason: fmt.Sprintf("must be in format %s", DateFormat),
		}
	}
	return dueDate, nil
}

// Create adds a new debt with nothing paid yet.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyDebt) (int64, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateDebt(ctx, models.Debt{
		UserUID:            userUID,
		Name:               req.Name,
		Bank:               req.Bank,
		TotalValue:         req.TotalValue,
		MonthlyInstallment: req.MonthlyInstallment,
		DueDate:            dueDate,
		Icon:               req.Icon,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created debt", slog.Int64("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// Get returns one of the user's debts.
func (s *Service) Get(ctx context.Context, userUID string, id int64) (*models.Debt, error) {
	return s.repo.GetDebt(ctx, userUID, id)
}

// List returns all debts of the user.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Debt, error) {
	return s.repo.ListDebts(ctx, userUID)
}

// Update rewrites the descriptive fields of the user's debt.
func (s *Service) Update(ctx context.Context, userUID string, id int64, req models.DummyDebt) error {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return err
	}
	return s.repo.UpdateDebt(ctx, userUID, id, models.Debt{
		Name:               req.Name,
		Bank:               req.Bank,
		TotalValue:         req.TotalValue,
		MonthlyInstallment: req.MonthlyInstallment,
		DueDate:            dueDate,
		Icon:               req.Icon,
	})
}

// Pay applies a payment. The store rejects a payment that would push the
// paid value past the total; nothing is ever silently capped.
func (s *Service) Pay(ctx context.Context, userUID string, id int64, req models.DummyDebtPayment) (*models.Debt, error) {
	return s.repo.AddDebtPayment(ctx, userUID, id, req.Amount)
}

// Remove deletes the user's debt.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	return s.repo.RemoveDebt(ctx, userUID, id)
}
