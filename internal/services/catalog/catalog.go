// Package catalog serves the package catalog. Packages are reference data,
// so the listing is cached aggressively.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitaleevo/holyfinance/internal/models"
)

const cacheKey = "packages"

// Repository defines the package storage methods the service needs.
type Repository interface {
	ListActivePackages(ctx context.Context) ([]*models.Package, error)
	GetPackageByKey(ctx context.Context, key string) (*models.Package, error)
}

// Cache describes the read cache used for the catalog listing.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service implements catalog reads.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New creates a new catalog Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// List returns the active packages in seed order, served from cache when
// possible.
func (s *Service) List(ctx context.Context) ([]*models.Package, error) {
	var cached []*models.Package
	found, err := s.cache.Get(cacheKey, &cached)
	if err == nil && found {
		return cached, nil
	}

	packages, err := s.repo.ListActivePackages(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, packages, time.Hour); err != nil {
		s.log.Warn("failed to cache packages", slog.Any("err", err))
	}
	return packages, nil
}

// Get returns one package by key.
func (s *Service) Get(ctx context.Context, key string) (*models.Package, error) {
	return s.repo.GetPackageByKey(ctx, key)
}
