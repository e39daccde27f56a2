package account_test

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
	"github.com/vitaleevo/holyfinance/internal/services/account"
)

type AccountRepoMock struct {
	mock.Mock
}

func (m *AccountRepoMock) CreateAccount(ctx context.Context, acc models.Account, maxAccounts int) (int64, error) {
	args := m.Called(ctx, acc, maxAccounts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AccountRepoMock) GetAccount(ctx context.Context, userUID string, id int64) (*models.Account, error) {
	args := m.Called(ctx, userUID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *AccountRepoMock) ListAccounts(ctx context.Context, userUID string) ([]*models.Account, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *AccountRepoMock) CountAccounts(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func (m *AccountRepoMock) UpdateAccount(ctx context.Context, userUID string, id int64, acc models.Account) error {
	args := m.Called(ctx, userUID, id, acc)
	return args.Error(0)
}

func (m *AccountRepoMock) RemoveAccount(ctx context.Context, userUID string, id int64) error {
	args := m.Called(ctx, userUID, id)
	return args.Error(0)
}

type PackageProviderMock struct {
	mock.Mock
}

func (m *PackageProviderMock) GetPackageByKey(ctx context.Context, key string) (*models.Package, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func basicUser() *models.User {
	return &models.User{UID: "uid-123", Username: "maria", PackageKey: "basic"}
}

func basicPackage() *models.Package {
	return &models.Package{Key: "basic", MaxAccounts: 2, MaxFamilyMembers: 1}
}

func TestService_Create(t *testing.T) {
	req := models.DummyAccount{Name: "Conta corrente", Type: "checking", Bank: "Nubank"}

	t.Run("below quota creates and invalidates cache", func(t *testing.T) {
		repo := new(AccountRepoMock)
		packages := new(PackageProviderMock)
		cache := new(CacheMock)
		svc := account.New(repo, packages, cache, newNoopLogger())

		packages.On("GetPackageByKey", mock.Anything, "basic").Return(basicPackage(), nil).Once()
		repo.On("CountAccounts", mock.Anything, "uid-123").Return(1, nil).Once()
		repo.On("CreateAccount", mock.Anything, mock.MatchedBy(func(acc models.Account) bool {
			return acc.UserUID == "uid-123" && acc.Name == "Conta corrente" && acc.Balance == 0
		}), 2).Return(int64(5), nil).Once()
		cache.On("Invalidate", "accounts:uid-123").Return(nil).Once()

		id, err := svc.Create(context.Background(), basicUser(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("at quota denied without touching storage insert", func(t *testing.T) {
		repo := new(AccountRepoMock)
		packages := new(PackageProviderMock)
		cache := new(CacheMock)
		svc := account.New(repo, packages, cache, newNoopLogger())

		packages.On("GetPackageByKey", mock.Anything, "basic").Return(basicPackage(), nil).Once()
		repo.On("CountAccounts", mock.Anything, "uid-123").Return(2, nil).Once()

		_, err := svc.Create(context.Background(), basicUser(), req)

		var quotaErr *errs.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, "accounts", quotaErr.Resource)
		assert.Equal(t, 2, quotaErr.Limit)
		repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("race lost at insert time propagates the quota error", func(t *testing.T) {
		repo := new(AccountRepoMock)
		packages := new(PackageProviderMock)
		cache := new(CacheMock)
		svc := account.New(repo, packages, cache, newNoopLogger())

		packages.On("GetPackageByKey", mock.Anything, "basic").Return(basicPackage(), nil).Once()
		repo.On("CountAccounts", mock.Anything, "uid-123").Return(1, nil).Once()
		repo.On("CreateAccount", mock.Anything, mock.Anything, 2).
			Return(int64(0), &errs.QuotaExceededError{Resource: "accounts", Limit: 2}).Once()

		_, err := svc.Create(context.Background(), basicUser(), req)

		var quotaErr *errs.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
	})
}

func TestService_List(t *testing.T) {
	accounts := []*models.Account{
		{ID: 1, UserUID: "uid-123", Name: "Conta corrente", Balance: 42000},
	}

	t.Run("cache miss loads from storage and fills the cache", func(t *testing.T) {
		repo := new(AccountRepoMock)
		packages := new(PackageProviderMock)
		cache := new(CacheMock)
		svc := account.New(repo, packages, cache, newNoopLogger())

		cache.On("Get", "accounts:uid-123", mock.Anything).Return(false, nil).Once()
		repo.On("ListAccounts", mock.Anything, "uid-123").Return(accounts, nil).Once()
		cache.On("Set", "accounts:uid-123", accounts, time.Hour).Return(nil).Once()

		got, err := svc.List(context.Background(), "uid-123")
		require.NoError(t, err)
		assert.Equal(t, accounts, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		repo := new(AccountRepoMock)
		packages := new(PackageProviderMock)
		cache := new(CacheMock)
		svc := account.New(repo, packages, cache, newNoopLogger())

		cache.On("Get", "accounts:uid-123", mock.Anything).Return(true, nil).Once()

		_, err := svc.List(context.Background(), "uid-123")
		require.NoError(t, err)

		repo.AssertNotCalled(t, "ListAccounts", mock.Anything, mock.Anything)
	})

	t.Run("cache write failure does not fail the read", func(t *testing.T) {
		repo := new(AccountRepoMock)
		packages := new(PackageProviderMock)
		cache := new(CacheMock)
		svc := account.New(repo, packages, cache, newNoopLogger())

		cache.On("Get", "accounts:uid-123", mock.Anything).Return(false, nil).Once()
		repo.On("ListAccounts", mock.Anything, "uid-123").Return(accounts, nil).Once()
		cache.On("Set", "accounts:uid-123", accounts, time.Hour).Return(assert.AnError).Once()

		got, err := svc.List(context.Background(), "uid-123")
		require.NoError(t, err)
		assert.Equal(t, accounts, got)
	})
}

func TestService_Remove(t *testing.T) {
	repo := new(AccountRepoMock)
	packages := new(PackageProviderMock)
	cache := new(CacheMock)
	svc := account.New(repo, packages, cache, newNoopLogger())

	repo.On("RemoveAccount", mock.Anything, "uid-123", int64(5)).Return(nil).Once()
	cache.On("Invalidate", "accounts:uid-123").Return(nil).Once()

	require.NoError(t, svc.Remove(context.Background(), "uid-123", 5))
	cache.AssertExpectations(t)
}
