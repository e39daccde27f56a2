package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/services/catalog"
)

type PackageRepoMock struct {
	mock.Mock
}

func (m *PackageRepoMock) ListActivePackages(ctx context.Context) ([]*models.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Package), args.Error(1)
}

func (m *PackageRepoMock) GetPackageByKey(ctx context.Context, key string) (*models.Package, error) {
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
	if args.Bool(0) {
		*(result.(*[]*models.Package)) = []*models.Package{{Key: "basic", Name: "Essencial"}}
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_List(t *testing.T) {
	packages := []*models.Package{
		{Key: "basic", Name: "Essencial"},
		{Key: "intermediate", Name: "Família"},
	}

	t.Run("cache miss reads storage and fills the cache", func(t *testing.T) {
		repo := new(PackageRepoMock)
		cache := new(CacheMock)
		svc := catalog.New(repo, cache, newNoopLogger())

		cache.On("Get", "packages", mock.Anything).Return(false, nil).Once()
		repo.On("ListActivePackages", mock.Anything).Return(packages, nil).Once()
		cache.On("Set", "packages", packages, time.Hour).Return(nil).Once()

		got, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		repo := new(PackageRepoMock)
		cache := new(CacheMock)
		svc := catalog.New(repo, cache, newNoopLogger())

		cache.On("Get", "packages", mock.Anything).Return(true, nil).Once()

		got, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "basic", got[0].Key)
		repo.AssertNotCalled(t, "ListActivePackages", mock.Anything)
	})

	t.Run("cache write failure is not fatal", func(t *testing.T) {
		repo := new(PackageRepoMock)
		cache := new(CacheMock)
		svc := catalog.New(repo, cache, newNoopLogger())

		cache.On("Get", "packages", mock.Anything).Return(false, nil).Once()
		repo.On("ListActivePackages", mock.Anything).Return(packages, nil).Once()
		cache.On("Set", "packages", packages, time.Hour).Return(assert.AnError).Once()

		got, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("cache read failure falls back to storage", func(t *testing.T) {
		repo := new(PackageRepoMock)
		cache := new(CacheMock)
		svc := catalog.New(repo, cache, newNoopLogger())

		cache.On("Get", "packages", mock.Anything).Return(false, assert.AnError).Once()
		repo.On("ListActivePackages", mock.Anything).Return(packages, nil).Once()
		cache.On("Set", "packages", packages, time.Hour).Return(nil).Once()

		got, err := svc.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
