// Package goal implements savings goals and their contribution flow.
package goal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// DateFormat is the wire format of goal deadlines.
const DateFormat = "02-01-2006"

// Repository defines the goal storage methods the service needs.
type Repository interface {
	CreateGoal(ctx context.Context, g models.Goal) (int64, error)
	GetGoal(ctx context.Context, userUID string, id int64) (*models.Goal, error)
	ListGoals(ctx context.Context, userUID string) ([]*models.Goal, error)
	UpdateGoal(ctx context.Context, userUID string, id int64, g models.Goal) error
	AddGoalContribution(ctx context.Context, userUID string, id int64, amount int64) (*models.Goal, error)
	RemoveGoal(ctx context.Context, userUID string, id int64) error
}

// Alerter raises user-facing alerts when a goal completes.
type Alerter interface {
	Alert(ctx context.Context, user *models.User, title, message, typ string, important bool) error
}

// Service implements goal business logic.
type Service struct {
	repo    Repository
	alerter Alerter
	log     *slog.Logger
}

// New creates a new goal Service.
func New(repo Repository, alerter Alerter, log *slog.Logger) *Service {
	return &Service{repo: repo, alerter: alerter, log: log}
}

func parseDeadline(raw string) (time.Time, error) {
	deadline, err := time.Parse(DateFormat, raw)
	if err != nil {
		return time.Time{}, &errs.ValidationError{
			Field:  "deadline",
			Reason: fmt.Sprintf("must be in format %s", DateFormat),
		}
	}
	return deadline, nil
}

// Create adds a new active goal.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyGoal) (int64, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateGoal(ctx, models.Goal{
		UserUID:      userUID,
		Title:        req.Title,
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
		Status:       models.GoalActive,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created goal", slog.Int64("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// Get returns one of the user's goals.
func (s *Service) Get(ctx context.Context, userUID string, id int64) (*models.Goal, error) {
	return s.repo.GetGoal(ctx, userUID, id)
}

// List returns all goals of the user.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Goal, error) {
	return s.repo.ListGoals(ctx, userUID)
}

// Update rewrites title, target amount and deadline of the user's goal.
func (s *Service) Update(ctx context.Context, userUID string, id int64, req models.DummyGoal) error {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return err
	}
	return s.repo.UpdateGoal(ctx, userUID, id, models.Goal{
		Title:        req.Title,
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
	})
}

// Contribute applies a contribution. Overshoot is allowed and recorded; the
// status flips to completed the first time the target is reached and never
// reopens, even when a later reversal lowers the amount. A negative amount
// must not push the goal below zero.
func (s *Service) Contribute(ctx context.Context, user *models.User, id int64, req models.DummyContribution) (*models.Goal, error) {
	before, err := s.repo.GetGoal(ctx, user.UID, id)
	if err != nil {
		return nil, err
	}
	if before.CurrentAmount+req.Amount < 0 {
		return nil, &errs.ValidationError{Field: "amount", Reason: "reversal exceeds current amount"}
	}

	goal, err := s.repo.AddGoalContribution(ctx, user.UID, id, req.Amount)
	if err != nil {
		return nil, err
	}

	if before.Status == models.GoalActive && goal.Status == models.GoalCompleted {
		if err := s.alerter.Alert(ctx, user,
			"Meta concluída",
			fmt.Sprintf("Parabéns! Você atingiu a meta %q.", goal.Title),
			models.NotificationSuccess, true); err != nil {
			s.log.Error("failed to raise goal completion alert", sl.Err(err))
		}
	}
	return goal, nil
}

// Remove deletes the user's goal.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	return s.repo.RemoveGoal(ctx, userUID, id)
}
