// Package transaction implements transaction management. Every mutation
// runs through the storage layer together with a full recompute of the
// affected account balance, keeping the stored balance equal to the signed
// sum of the account's transactions at all times.
package transaction

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/quota"
)

// DateFormat is the wire format of transaction dates.
const DateFormat = "02-01-2006"

// Repository defines the transaction storage methods the service needs.
type Repository interface {
	CreateTransaction(ctx context.Context, t models.Transaction) (int64, error)
	GetTransaction(ctx context.Context, userUID string, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error)
	ListAllTransactions(ctx context.Context, userUID string) ([]*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userUID string, id int64, t models.Transaction) error
	RemoveTransaction(ctx context.Context, userUID string, id int64) error
}

// AccountProvider resolves accounts for ownership checks and display names.
type AccountProvider interface {
	Get(ctx context.Context, userUID string, id int64) (*models.Account, error)
	InvalidateCache(userUID string)
}

// PackageProvider resolves the caller's current package for the export gate.
type PackageProvider interface {
	GetPackageByKey(ctx context.Context, key string) (*models.Package, error)
}

// Service implements transaction business logic.
type Service struct {
	repo     Repository
	accounts AccountProvider
	packages PackageProvider
	log      *slog.Logger
}

// New creates a new transaction Service.
func New(repo Repository, accounts AccountProvider, packages PackageProvider, log *slog.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, packages: packages, log: log}
}

func (s *Service) resolve(ctx context.Context, userUID string, req models.DummyTransaction) (models.Transaction, error) {
	date, err := time.Parse(DateFormat, req.Date)
	if err != nil {
		return models.Transaction{}, &errs.ValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("must be in format %s", DateFormat),
		}
	}

	// Ownership check: resolving the account through the user-scoped getter
	// rejects accounts of other tenants before anything is written.
	account, err := s.accounts.Get(ctx, userUID, req.AccountID)
	if err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		UserUID:     userUID,
		AccountID:   account.ID,
		AccountName: account.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Date:        date,
	}, nil
}

// Create records a transaction and updates the account balance atomically.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyTransaction) (int64, error) {
	t, err := s.resolve(ctx, userUID, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return 0, err
	}

	s.log.Info("created transaction", slog.Int64("id", id), slog.String("user_uid", userUID))
	s.accounts.InvalidateCache(userUID)
	return id, nil
}

// Get returns one of the user's transactions.
func (s *Service) Get(ctx context.Context, userUID string, id int64) (*models.Transaction, error) {
	return s.repo.GetTransaction(ctx, userUID, id)
}

// List returns the user's transactions, newest first, paginated.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error) {
	return s.repo.ListTransactions(ctx, userUID, limit, offset)
}

// Update rewrites a transaction; balances of both the old and the new
// account converge in the same storage transaction.
func (s *Service) Update(ctx context.Context, userUID string, id int64, req models.DummyTransaction) error {
	t, err := s.resolve(ctx, userUID, req)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateTransaction(ctx, userUID, id, t); err != nil {
		return err
	}
	s.accounts.InvalidateCache(userUID)
	return nil
}

// Export renders the user's full transaction history as CSV, oldest first.
// Available on plans carrying the export_reports feature.
func (s *Service) Export(ctx context.Context, user *models.User) ([]byte, error) {
	pkg, err := s.packages.GetPackageByKey(ctx, user.PackageKey)
	if err != nil {
		return nil, err
	}
	if err := quota.Authorize(pkg, quota.ActionExportReports, quota.Counts{}); err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListAllTransactions(ctx, user.UID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{{"id", "account", "description", "amount", "type", "category", "date"}}
	for _, t := range transactions {
		records = append(records, []string{
			strconv.FormatInt(t.ID, 10),
			t.AccountName,
			t.Description,
			strconv.FormatInt(t.Amount, 10),
			t.Type,
			t.Category,
			t.Date.Format(DateFormat),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("transaction.Export: %w", err)
	}

	s.log.Info("exported transactions",
		slog.String("user_uid", user.UID), slog.Int("rows", len(transactions)))
	return buf.Bytes(), nil
}

// Remove deletes a transaction and updates the account balance atomically.
func (s *Service) Remove(ctx context.Context, userUID string, id int64) error {
	if err := s.repo.RemoveTransaction(ctx, userUID, id); err != nil {
		return err
	}
	s.accounts.InvalidateCache(userUID)
	return nil
}
