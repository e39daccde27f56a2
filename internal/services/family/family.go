// Package family implements family sharing. The feature itself is
// plan-gated and the member count is capped by the package quota.
package family

import (
	"context"
	"log/slog"

	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/quota"
)

// Repository defines the family storage methods the service needs.
type Repository interface {
	CreateFamilyMember(ctx context.Context, m models.FamilyMember, maxMembers int) (int64, error)
	ListFamilyMembers(ctx context.Context, userUID string) ([]*models.FamilyMember, error)
	CountFamilyMembers(ctx context.Context, userUID string) (int, error)
	RemoveFamilyMember(ctx context.Context, userUID string, id int64) error
}

// PackageProvider resolves the caller's current package.
type PackageProvider interface {
	GetPackageByKey(ctx context.Context, key string) (*models.Package, error)
}

// Service implements family sharing business logic.
type Service struct {
	repo     Repository
	packages PackageProvider
	log      *slog.Logger
}

// New creates a new family Service.
func New(repo Repository, packages PackageProvider, log *slog.Logger) *Service {
	return &Service{repo: repo, packages: packages, log: log}
}

// Add registers a family member after the feature and quota checks. The
// repository repeats the count guard atomically inside the insert.
func (s *Service) Add(ctx context.Context, user *models.User, req models.DummyFamilyMember) (int64, error) {
	pkg, err := s.packages.GetPackageByKey(ctx, user.PackageKey)
	if err != nil {
		return 0, err
	}
	count, err := s.repo.CountFamilyMembers(ctx, user.UID)
	if err != nil {
		return 0, err
	}
	if err := quota.Authorize(pkg, quota.ActionAddFamilyMember, quota.Counts{FamilyMembers: count}); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateFamilyMember(ctx, models.FamilyMember{
		UserUID: user.UID,
		Name:    req.Name,
		Email:   req.Email,
	}, pkg.MaxFamilyMembers)
	if err != nil {
		return 0, err
	}
	s.log.Info("added family member", slog.Int64("id", id), slog.String("user_uid", user.UID))
	return id, nil
}

// List returns all family members of the user.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.FamilyMember, error) {
	return s.repo.ListFamilyMembers(ctx, userUID)
}

// Remove deletes the user's family member.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	return s.repo.RemoveFamilyMember(ctx, userUID, id)
}
