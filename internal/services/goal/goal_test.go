package goal_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/services/goal"
)

type GoalRepoMock struct {
	mock.Mock
}

func (m *GoalRepoMock) CreateGoal(ctx context.Context, g models.Goal) (int64, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *GoalRepoMock) GetGoal(ctx context.Context, userUID string, id int64) (*models.Goal, error) {
	args := m.Called(ctx, userUID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Goal), args.Error(1)
}

func (m *GoalRepoMock) ListGoals(ctx context.Context, userUID string) ([]*models.Goal, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Goal), args.Error(1)
}

func (m *GoalRepoMock) UpdateGoal(ctx context.Context, userUID string, id int64, g models.Goal) error {
	args := m.Called(ctx, userUID, id, g)
	return args.Error(0)
}

func (m *GoalRepoMock) AddGoalContribution(ctx context.Context, userUID string, id int64, amount int64) (*models.Goal, error) {
	args := m.Called(ctx, userUID, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Goal), args.Error(1)
}

func (m *GoalRepoMock) RemoveGoal(ctx context.Context, userUID string, id int64) error {
	args := m.Called(ctx, userUID, id)
	return args.Error(0)
}

type AlerterMock struct {
	mock.Mock
}

func (m *AlerterMock) Alert(ctx context.Context, user *models.User, title, message, typ string, important bool) error {
	args := m.Called(ctx, user, title, message, typ, important)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyGoal
		setupMocks func(r *GoalRepoMock)
		wantID     int64
		wantErr    bool
	}{
		{
			name: "successful create starts active",
			req: models.DummyGoal{
				Title:        "Viagem",
				TargetAmount: 500000,
				Deadline:     "31-12-2026",
			},
			setupMocks: func(r *GoalRepoMock) {
				r.On("CreateGoal", mock.Anything, mock.MatchedBy(func(g models.Goal) bool {
					return g.UserUID == "uid-123" &&
						g.Title == "Viagem" &&
						g.TargetAmount == 500000 &&
						g.Status == models.GoalActive &&
						g.Deadline.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
				})).Return(int64(1), nil).Once()
			},
			wantID:  1,
			wantErr: false,
		},
		{
			name: "malformed deadline rejected before storage",
			req: models.DummyGoal{
				Title:        "Viagem",
				TargetAmount: 500000,
				Deadline:     "2026-12-31",
			},
			setupMocks: func(_ *GoalRepoMock) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(GoalRepoMock)
			alerter := new(AlerterMock)
			svc := goal.New(repo, alerter, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Create(context.Background(), "uid-123", tt.req)
			if tt.wantErr {
				var valErr *errs.ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.Equal(t, "deadline", valErr.Field)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_Contribute(t *testing.T) {
	user := &models.User{UID: "uid-123", Username: "maria"}

	t.Run("completion flip raises one alert", func(t *testing.T) {
		repo := new(GoalRepoMock)
		alerter := new(AlerterMock)
		svc := goal.New(repo, alerter, newNoopLogger())

		repo.On("GetGoal", mock.Anything, "uid-123", int64(1)).Return(&models.Goal{
			ID: 1, UserUID: "uid-123", Title: "Viagem",
			TargetAmount: 100000, CurrentAmount: 90000, Status: models.GoalActive,
		}, nil).Once()
		repo.On("AddGoalContribution", mock.Anything, "uid-123", int64(1), int64(20000)).Return(&models.Goal{
			ID: 1, UserUID: "uid-123", Title: "Viagem",
			TargetAmount: 100000, CurrentAmount: 110000, Status: models.GoalCompleted,
		}, nil).Once()
		alerter.On("Alert", mock.Anything, user, mock.Anything, mock.Anything,
			models.NotificationSuccess, true).Return(nil).Once()

		got, err := svc.Contribute(context.Background(), user, 1, models.DummyContribution{Amount: 20000})
		require.NoError(t, err)
		assert.Equal(t, models.GoalCompleted, got.Status)
		assert.Equal(t, int64(110000), got.CurrentAmount)

		repo.AssertExpectations(t)
		alerter.AssertExpectations(t)
	})

	t.Run("contribution to an already completed goal does not alert again", func(t *testing.T) {
		repo := new(GoalRepoMock)
		alerter := new(AlerterMock)
		svc := goal.New(repo, alerter, newNoopLogger())

		repo.On("GetGoal", mock.Anything, "uid-123", int64(1)).Return(&models.Goal{
			ID: 1, TargetAmount: 100000, CurrentAmount: 110000, Status: models.GoalCompleted,
		}, nil).Once()
		repo.On("AddGoalContribution", mock.Anything, "uid-123", int64(1), int64(5000)).Return(&models.Goal{
			ID: 1, TargetAmount: 100000, CurrentAmount: 115000, Status: models.GoalCompleted,
		}, nil).Once()

		_, err := svc.Contribute(context.Background(), user, 1, models.DummyContribution{Amount: 5000})
		require.NoError(t, err)

		alerter.AssertNotCalled(t, "Alert", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reversal below zero rejected", func(t *testing.T) {
		repo := new(GoalRepoMock)
		alerter := new(AlerterMock)
		svc := goal.New(repo, alerter, newNoopLogger())

		repo.On("GetGoal", mock.Anything, "uid-123", int64(1)).Return(&models.Goal{
			ID: 1, TargetAmount: 100000, CurrentAmount: 10000, Status: models.GoalActive,
		}, nil).Once()

		_, err := svc.Contribute(context.Background(), user, 1, models.DummyContribution{Amount: -20000})

		var valErr *errs.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "amount", valErr.Field)
		repo.AssertNotCalled(t, "AddGoalContribution", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("alert failure does not fail the contribution", func(t *testing.T) {
		repo := new(GoalRepoMock)
		alerter := new(AlerterMock)
		svc := goal.New(repo, alerter, newNoopLogger())

		repo.On("GetGoal", mock.Anything, "uid-123", int64(1)).Return(&models.Goal{
			ID: 1, TargetAmount: 100000, CurrentAmount: 90000, Status: models.GoalActive,
		}, nil).Once()
		repo.On("AddGoalContribution", mock.Anything, "uid-123", int64(1), int64(10000)).Return(&models.Goal{
			ID: 1, TargetAmount: 100000, CurrentAmount: 100000, Status: models.GoalCompleted,
		}, nil).Once()
		alerter.On("Alert", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything).Return(assert.AnError).Once()

		got, err := svc.Contribute(context.Background(), user, 1, models.DummyContribution{Amount: 10000})
		require.NoError(t, err)
		assert.Equal(t, models.GoalCompleted, got.Status)
	})

	t.Run("missing goal is passed through", func(t *testing.T) {
		repo := new(GoalRepoMock)
		alerter := new(AlerterMock)
		svc := goal.New(repo, alerter, newNoopLogger())

		repo.On("GetGoal", mock.Anything, "uid-123", int64(42)).Return(nil, errs.ErrNotFound).Once()

		_, err := svc.Contribute(context.Background(), user, 42, models.DummyContribution{Amount: 100})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
