package investment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/services/investment"
)

type InvestmentRepoMock struct {
	mock.Mock
}

func (m *InvestmentRepoMock) CreateInvestment(ctx context.Context, inv models.Investment) (int64, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InvestmentRepoMock) GetInvestment(ctx context.Context, userUID string, id int64) (*models.Investment, error) {
	args := m.Called(ctx, userUID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Investment), args.Error(1)
}

func (m *InvestmentRepoMock) ListInvestments(ctx context.Context, userUID string) ([]*models.Investment, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Investment), args.Error(1)
}

func (m *InvestmentRepoMock) UpdateInvestment(ctx context.Context, userUID string, id int64, inv models.Investment) error {
	args := m.Called(ctx, userUID, id, inv)
	return args.Error(0)
}

func (m *InvestmentRepoMock) RemoveInvestment(ctx context.Context, userUID string, id int64) error {
	args := m.Called(ctx, userUID, id)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       models.DummyInvestment
		wantField string
	}{
		{
			name: "fractional quantity accepted",
			req: models.DummyInvestment{
				Ticker: "HGLG11", Name: "CSHG Logística", Type: "fund",
				Quantity: "10.5", UnitPrice: "160.32",
			},
		},
		{
			name: "quantity not a number",
			req: models.DummyInvestment{
				Ticker: "HGLG11", Name: "CSHG Logística", Type: "fund",
				Quantity: "ten", UnitPrice: "160.32",
			},
			wantField: "quantity",
		},
		{
			name: "negative quantity rejected",
			req: models.DummyInvestment{
				Ticker: "HGLG11", Name: "CSHG Logística", Type: "fund",
				Quantity: "-1", UnitPrice: "160.32",
			},
			wantField: "quantity",
		},
		{
			name: "unit price not a number",
			req: models.DummyInvestment{
				Ticker: "HGLG11", Name: "CSHG Logística", Type: "fund",
				Quantity: "10", UnitPrice: "abc",
			},
			wantField: "unit_price",
		},
		{
			name: "negative unit price rejected",
			req: models.DummyInvestment{
				Ticker: "HGLG11", Name: "CSHG Logística", Type: "fund",
				Quantity: "10", UnitPrice: "-0.01",
			},
			wantField: "unit_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(InvestmentRepoMock)
			svc := investment.New(repo, newNoopLogger())

			if tt.wantField == "" {
				repo.On("CreateInvestment", mock.Anything, mock.MatchedBy(func(inv models.Investment) bool {
					return inv.UserUID == "uid-123" &&
						inv.Ticker == "HGLG11" &&
						inv.Quantity.Equal(decimal.RequireFromString("10.5")) &&
						inv.UnitPrice.Equal(decimal.RequireFromString("160.32"))
				})).Return(int64(4), nil).Once()
			}

			id, err := svc.Create(context.Background(), "uid-123", tt.req)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(4), id)
				repo.AssertExpectations(t)
				return
			}

			var valErr *errs.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
			repo.AssertNotCalled(t, "CreateInvestment", mock.Anything, mock.Anything)
		})
	}
}

func TestInvestment_CurrentValue(t *testing.T) {
	inv := models.Investment{
		Quantity:  decimal.RequireFromString("10.5"),
		UnitPrice: decimal.RequireFromString("160.32"),
	}
	assert.True(t, inv.CurrentValue().Equal(decimal.RequireFromString("1683.36")))

	empty := models.Investment{Quantity: decimal.Zero, UnitPrice: decimal.RequireFromString("99")}
	assert.True(t, empty.CurrentValue().IsZero())
}
