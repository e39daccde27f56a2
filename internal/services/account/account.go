// Package account implements account management gated by the plan quota.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/quota"
)

// Repository defines the account storage methods the service needs.
type Repository interface {
	CreateAccount(ctx context.Context, account models.Account, maxAccounts int) (int64, error)
	GetAccount(ctx context.Context, userUID string, id int64) (*models.Account, error)
	ListAccounts(ctx context.Context, userUID string) ([]*models.Account, error)
	CountAccounts(ctx context.Context, userUID string) (int, error)
	UpdateAccount(ctx context.Context, userUID string, id int64, account models.Account) error
	RemoveAccount(ctx context.Context, userUID string, id int64) error
}

// PackageProvider resolves the caller's current package.
type PackageProvider interface {
	GetPackageByKey(ctx context.Context, key string) (*models.Package, error)
}

// Cache describes the read cache used for account lists.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service implements account business logic.
type Service struct {
	repo     Repository
	packages PackageProvider
	cache    Cache
	log      *slog.Logger
}

// New creates a new account Service.
func New(repo Repository, packages PackageProvider, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, packages: packages, cache: cache, log: log}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("accounts:%s", userUID)
}

// Create adds an account for the user after the quota check. The repository
// repeats the count guard atomically inside the insert, so a race between
// two creates cannot exceed the limit.
func (s *Service) Create(ctx context.Context, user *models.User, req models.DummyAccount) (int64, error) {
	pkg, err := s.packages.GetPackageByKey(ctx, user.PackageKey)
	if err != nil {
		return 0, err
	}
	count, err := s.repo.CountAccounts(ctx, user.UID)
	if err != nil {
		return 0, err
	}
	if err := quota.Authorize(pkg, quota.ActionCreateAccount, quota.Counts{Accounts: count}); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateAccount(ctx, models.Account{
		UserUID: user.UID,
		Name:    req.Name,
		Type:    req.Type,
		Bank:    req.Bank,
	}, pkg.MaxAccounts)
	if err != nil {
		return 0, err
	}

	s.log.Info("created account", slog.Int64("id", id), slog.String("user_uid", user.UID))
	s.invalidate(user.UID)
	return id, nil
}

// List returns the user's accounts, served from cache when possible.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Account, error) {
	var cached []*models.Account
	found, err := s.cache.Get(cacheKey(userUID), &cached)
	if err == nil && found {
		return cached, nil
	}

	accounts, err := s.repo.ListAccounts(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(userUID), accounts, time.Hour); err != nil {
		s.log.Warn("failed to cache accounts", slog.String("user_uid", userUID), slog.Any("err", err))
	}
	return accounts, nil
}

// Get returns one of the user's accounts.
func (s *Service) Get(ctx context.Context, userUID string, id int64) (*models.Account, error) {
	return s.repo.GetAccount(ctx, userUID, id)
}

// Update renames or retypes the user's account. Stored balance is untouched.
func (s *Service) Update(ctx context.Context, userUID string, id int64, req models.DummyAccount) error {
	err := s.repo.UpdateAccount(ctx, userUID, id, models.Account{
		Name: req.Name,
		Type: req.Type,
		Bank: req.Bank,
	})
	if err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// Remove deletes the user's account. Historical transactions referencing it
// stay in place as orphaned references.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	if err := s.repo.RemoveAccount(ctx, userUID, id); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// InvalidateCache drops the user's cached account list. Called by the
// transaction service after any mutation that moves a balance.
func (s *Service) InvalidateCache(userUID string) {
	s.invalidate(userUID)
}

func (s *Service) invalidate(userUID string) {
	if err := s.cache.Invalidate(cacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate accounts cache",
			slog.String("user_uid", userUID), slog.Any("err", err))
	}
}
