package family_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/quota"
	"github.com/vitaleevo/holyfinance/internal/services/family"
)

type FamilyRepoMock struct {
	mock.Mock
}

func (m *FamilyRepoMock) CreateFamilyMember(ctx context.Context, member models.FamilyMember, maxMembers int) (int64, error) {
	args := m.Called(ctx, member, maxMembers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FamilyRepoMock) ListFamilyMembers(ctx context.Context, userUID string) ([]*models.FamilyMember, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FamilyMember), args.Error(1)
}

func (m *FamilyRepoMock) CountFamilyMembers(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func (m *FamilyRepoMock) RemoveFamilyMember(ctx context.Context, userUID string, id int64) error {
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

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Add(t *testing.T) {
	req := models.DummyFamilyMember{Name: "João Silva", Email: "joao@example.com"}

	t.Run("basic plan lacks family sharing", func(t *testing.T) {
		repo := new(FamilyRepoMock)
		packages := new(PackageProviderMock)
		svc := family.New(repo, packages, newNoopLogger())

		user := &models.User{UID: "uid-123", PackageKey: "basic"}
		packages.On("GetPackageByKey", mock.Anything, "basic").Return(&models.Package{
			Key: "basic", MaxFamilyMembers: 1, Features: []string{},
		}, nil).Once()
		repo.On("CountFamilyMembers", mock.Anything, "uid-123").Return(0, nil).Once()

		_, err := svc.Add(context.Background(), user, req)

		var featErr *errs.FeatureNotAvailableError
		require.ErrorAs(t, err, &featErr)
		assert.Equal(t, quota.FeatureFamilySharing, featErr.Feature)
		repo.AssertNotCalled(t, "CreateFamilyMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("intermediate plan below quota adds the member", func(t *testing.T) {
		repo := new(FamilyRepoMock)
		packages := new(PackageProviderMock)
		svc := family.New(repo, packages, newNoopLogger())

		user := &models.User{UID: "uid-123", PackageKey: "intermediate"}
		packages.On("GetPackageByKey", mock.Anything, "intermediate").Return(&models.Package{
			Key: "intermediate", MaxFamilyMembers: 3,
			Features: []string{quota.FeatureFamilySharing},
		}, nil).Once()
		repo.On("CountFamilyMembers", mock.Anything, "uid-123").Return(1, nil).Once()
		repo.On("CreateFamilyMember", mock.Anything, mock.MatchedBy(func(m models.FamilyMember) bool {
			return m.UserUID == "uid-123" && m.Name == "João Silva" && m.Email == "joao@example.com"
		}), 3).Return(int64(2), nil).Once()

		id, err := svc.Add(context.Background(), user, req)
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)

		repo.AssertExpectations(t)
	})

	t.Run("at quota denied", func(t *testing.T) {
		repo := new(FamilyRepoMock)
		packages := new(PackageProviderMock)
		svc := family.New(repo, packages, newNoopLogger())

		user := &models.User{UID: "uid-123", PackageKey: "intermediate"}
		packages.On("GetPackageByKey", mock.Anything, "intermediate").Return(&models.Package{
			Key: "intermediate", MaxFamilyMembers: 3,
			Features: []string{quota.FeatureFamilySharing},
		}, nil).Once()
		repo.On("CountFamilyMembers", mock.Anything, "uid-123").Return(3, nil).Once()

		_, err := svc.Add(context.Background(), user, req)

		var quotaErr *errs.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, "family_members", quotaErr.Resource)
	})
}

func TestService_Remove(t *testing.T) {
	repo := new(FamilyRepoMock)
	packages := new(PackageProviderMock)
	svc := family.New(repo, packages, newNoopLogger())

	repo.On("RemoveFamilyMember", mock.Anything, "uid-123", int64(2)).Return(nil).Once()

	require.NoError(t, svc.Remove(context.Background(), "uid-123", 2))
	repo.AssertExpectations(t)
}
