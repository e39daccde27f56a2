package account

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitaleevo/holyfinance/internal/http/middlewarectx"
	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

type AccountServiceMock struct {
	mock.Mock
}

func (m *AccountServiceMock) Create(ctx context.Context, user *models.User, req models.DummyAccount) (int64, error) {
	args := m.Called(ctx, user, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AccountServiceMock) Get(ctx context.Context, userUID string, id int64) (*models.Account, error) {
	args := m.Called(ctx, userUID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *AccountServiceMock) List(ctx context.Context, userUID string) ([]*models.Account, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *AccountServiceMock) Update(ctx context.Context, userUID string, id int64, req models.DummyAccount) error {
	args := m.Called(ctx, userUID, id, req)
	return args.Error(0)
}

func (m *AccountServiceMock) Remove(ctx context.Context, userUID string, id int64) error {
	args := m.Called(ctx, userUID, id)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func authedRequest(method, target string, body []byte, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middlewarectx.User, user)
	return req.WithContext(ctx)
}

func TestHandler_Create(t *testing.T) {
	user := &models.User{UID: "uid-123", Username: "maria", PackageKey: "basic"}

	t.Run("successful create", func(t *testing.T) {
		svc := new(AccountServiceMock)
		handler := New(newNoopLogger(), svc)

		svc.On("Create", mock.Anything, user, models.DummyAccount{
			Name: "Conta corrente", Type: "checking", Bank: "Nubank",
		}).Return(int64(5), nil).Once()

		body, _ := json.Marshal(models.DummyAccount{Name: "Conta corrente", Type: "checking", Bank: "Nubank"})
		rec := httptest.NewRecorder()

		handler.Create(rec, authedRequest(http.MethodPost, "/accounts", body, user))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		svc.AssertExpectations(t)
	})

	t.Run("quota exceeded returns 403 with details", func(t *testing.T) {
		svc := new(AccountServiceMock)
		handler := New(newNoopLogger(), svc)

		svc.On("Create", mock.Anything, user, mock.Anything).
			Return(int64(0), &errs.QuotaExceededError{Resource: "accounts", Limit: 2}).Once()

		body, _ := json.Marshal(models.DummyAccount{Name: "Extra", Type: "savings"})
		rec := httptest.NewRecorder()

		handler.Create(rec, authedRequest(http.MethodPost, "/accounts", body, user))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Error", got["status"])

		details, ok := got["details"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "accounts", details["resource"])
		assert.Equal(t, float64(2), details["limit"])
	})

	t.Run("invalid type fails validation", func(t *testing.T) {
		svc := new(AccountServiceMock)
		handler := New(newNoopLogger(), svc)

		body, _ := json.Marshal(models.DummyAccount{Name: "Conta", Type: "bitcoin"})
		rec := httptest.NewRecorder()

		handler.Create(rec, authedRequest(http.MethodPost, "/accounts", body, user))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing user in context returns 401", func(t *testing.T) {
		svc := new(AccountServiceMock)
		handler := New(newNoopLogger(), svc)

		body, _ := json.Marshal(models.DummyAccount{Name: "Conta", Type: "checking"})
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_List(t *testing.T) {
	user := &models.User{UID: "uid-123", Username: "maria"}

	svc := new(AccountServiceMock)
	handler := New(newNoopLogger(), svc)

	svc.On("List", mock.Anything, "uid-123").Return([]*models.Account{
		{ID: 1, UserUID: "uid-123", Name: "Conta corrente", Type: "checking", Balance: 42000},
	}, nil).Once()

	rec := httptest.NewRecorder()
	handler.List(rec, authedRequest(http.MethodGet, "/accounts", nil, user))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	data := got["data"].(map[string]any)
	accounts := data["accounts"].([]any)
	require.Len(t, accounts, 1)
	first := accounts[0].(map[string]any)
	assert.Equal(t, float64(42000), first["balance"])
}
