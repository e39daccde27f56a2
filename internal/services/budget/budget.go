// Package budget implements per-category spending limits and their
// consumption read path. Exceeding a limit raises a warning alert exactly
// once per period; the stamp lives on the budget row itself, not in the
// notification history.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// PeriodFormat renders the monthly budget period, e.g. "2026-08".
const PeriodFormat = "2006-01"

// Repository defines the budget storage methods the service needs.
type Repository interface {
	CreateBudgetLimit(ctx context.Context, b models.BudgetLimit) (int64, error)
	GetBudgetLimit(ctx context.Context, userUID string, id int64) (*models.BudgetLimit, error)
	ListBudgetLimits(ctx context.Context, userUID string) ([]*models.BudgetLimit, error)
	UpdateBudgetLimit(ctx context.Context, userUID string, id int64, limitAmount int64) error
	MarkBudgetNotified(ctx context.Context, userUID string, id int64, period string) (bool, error)
	RemoveBudgetLimit(ctx context.Context, userUID string, id int64) error
}

// ExpenseSummer sums expense transactions per category and period.
type ExpenseSummer interface {
	SumExpensesByCategory(ctx context.Context, userUID, category string, from, to time.Time) (int64, error)
}

// Alerter raises user-facing alerts when a limit is exceeded.
type Alerter interface {
	Alert(ctx context.Context, user *models.User, title, message, typ string, important bool) error
}

// Service implements budget business logic.
type Service struct {
	repo     Repository
	expenses ExpenseSummer
	alerter  Alerter
	now      func() time.Time
	log      *slog.Logger
}

// New creates a new budget Service.
func New(repo Repository, expenses ExpenseSummer, alerter Alerter, log *slog.Logger) *Service {
	return &Service{repo: repo, expenses: expenses, alerter: alerter, now: time.Now, log: log}
}

// Create adds a budget limit. At most one limit per (user, category).
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyBudgetLimit) (int64, error) {
	id, err := s.repo.CreateBudgetLimit(ctx, models.BudgetLimit{
		UserUID:     userUID,
		Category:    req.Category,
		LimitAmount: req.LimitAmount,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created budget limit", slog.Int64("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// List returns all budget limits of the user.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.BudgetLimit, error) {
	return s.repo.ListBudgetLimits(ctx, userUID)
}

// Update rewrites the ceiling of the user's budget limit.
func (s *Service) Update(ctx context.Context, userUID string, id int64, limitAmount int64) error {
	return s.repo.UpdateBudgetLimit(ctx, userUID, id, limitAmount)
}

// Remove deletes the user's budget limit.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	return s.repo.RemoveBudgetLimit(ctx, userUID, id)
}

// Status computes the current-period consumption of every budget limit of
// the user. For a limit exceeded for the first time this period it raises a
// warning alert; MarkBudgetNotified makes the once-per-period guarantee hold
// under concurrent reads.
func (s *Service) Status(ctx context.Context, user *models.User) ([]models.BudgetStatus, error) {
	limits, err := s.repo.ListBudgetLimits(ctx, user.UID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	period := now.Format(PeriodFormat)

	statuses := make([]models.BudgetStatus, 0, len(limits))
	for _, limit := range limits {
		consumed, err := s.expenses.SumExpensesByCategory(ctx, user.UID, limit.Category, from, to)
		if err != nil {
			return nil, err
		}

		exceeded := consumed > limit.LimitAmount
		if exceeded && limit.LastNotifiedPeriod != period {
			won, err := s.repo.MarkBudgetNotified(ctx, user.UID, limit.ID, period)
			if err != nil {
				return nil, err
			}
			if won {
				if err := s.alerter.Alert(ctx, user,
					"Limite de orçamento excedido",
					fmt.Sprintf("Os gastos na categoria %q ultrapassaram o limite definido.", limit.Category),
					models.NotificationWarning, true); err != nil {
					s.log.Error("failed to raise budget alert", sl.Err(err))
				}
			}
		}

		statuses = append(statuses, models.BudgetStatus{
			Category:    limit.Category,
			LimitAmount: limit.LimitAmount,
			Consumed:    consumed,
			Exceeded:    exceeded,
		})
	}
	return statuses, nil
}
