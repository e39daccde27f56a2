package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/quota"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, testUser("maria", "maria@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	// The settings row is created in the same transaction.
	var count int
	err = storage.DB.QueryRow(`SELECT COUNT(*) FROM settings WHERE user_uid = $1`, uid).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := storage.RegisterUser(ctx, testUser("maria", "other@example.com"))
		assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	t.Run("duplicate email conflicts case-insensitively", func(t *testing.T) {
		_, err := storage.RegisterUser(ctx, testUser("maria2", "MARIA@example.com"))
		assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	})
}

func TestStorage_SeedPackages(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, storage.SeedPackages(ctx, quota.DefaultPackages()))
	// A second run is a no-op, not a duplicate seed.
	require.NoError(t, storage.SeedPackages(ctx, quota.DefaultPackages()))

	pkgs, err := storage.ListActivePackages(ctx)
	require.NoError(t, err)
	require.Len(t, pkgs, 3)
	assert.Equal(t, "basic", pkgs[0].Key)
	assert.Equal(t, "intermediate", pkgs[1].Key)
	assert.Equal(t, "advanced", pkgs[2].Key)
	assert.Contains(t, pkgs[1].Features, quota.FeatureFamilySharing)

	got, err := storage.GetPackageByKey(ctx, "advanced")
	require.NoError(t, err)
	assert.Equal(t, 10, got.MaxAccounts)

	_, err = storage.GetPackageByKey(ctx, "platinum")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStorage_CreateAccount_QuotaGuard(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")

	first, err := storage.CreateAccount(ctx, models.Account{UserUID: userUID, Name: "Conta 1", Type: "checking"}, 2)
	require.NoError(t, err)
	require.Positive(t, first)

	_, err = storage.CreateAccount(ctx, models.Account{UserUID: userUID, Name: "Conta 2", Type: "savings"}, 2)
	require.NoError(t, err)

	// The guard inside the insert holds even if the caller's count was stale.
	_, err = storage.CreateAccount(ctx, models.Account{UserUID: userUID, Name: "Conta 3", Type: "cash"}, 2)
	var quotaErr *errs.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "accounts", quotaErr.Resource)
	assert.Equal(t, 2, quotaErr.Limit)

	count, err := storage.CountAccounts(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStorage_BalanceFollowsTransactions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	accountID := factory.CreateAccount(t, userUID, "Conta corrente", 0)

	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	incomeID, err := storage.CreateTransaction(ctx, models.Transaction{
		UserUID: userUID, AccountID: accountID, Description: "Salário",
		Amount: 50000, Type: models.TransactionIncome, Category: "salario", Date: date,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), factory.AccountBalance(t, accountID))

	expenseID, err := storage.CreateTransaction(ctx, models.Transaction{
		UserUID: userUID, AccountID: accountID, Description: "Mercado",
		Amount: 12000, Type: models.TransactionExpense, Category: "mercado", Date: date,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(38000), factory.AccountBalance(t, accountID))

	// Rewriting the expense amount converges the stored balance.
	err = storage.UpdateTransaction(ctx, userUID, expenseID, models.Transaction{
		AccountID: accountID, Description: "Mercado", Amount: 20000,
		Type: models.TransactionExpense, Category: "mercado", Date: date,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), factory.AccountBalance(t, accountID))

	require.NoError(t, storage.RemoveTransaction(ctx, userUID, expenseID))
	assert.Equal(t, int64(50000), factory.AccountBalance(t, accountID))

	require.NoError(t, storage.RemoveTransaction(ctx, userUID, incomeID))
	assert.Equal(t, int64(0), factory.AccountBalance(t, accountID))
}

func TestStorage_UpdateTransaction_MovesBetweenAccounts(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	fromID := factory.CreateAccount(t, userUID, "Conta corrente", 0)
	toID := factory.CreateAccount(t, userUID, "Poupança", 0)

	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	txID, err := storage.CreateTransaction(ctx, models.Transaction{
		UserUID: userUID, AccountID: fromID, Description: "Salário",
		Amount: 50000, Type: models.TransactionIncome, Category: "salario", Date: date,
	})
	require.NoError(t, err)

	err = storage.UpdateTransaction(ctx, userUID, txID, models.Transaction{
		AccountID: toID, Description: "Salário", Amount: 50000,
		Type: models.TransactionIncome, Category: "salario", Date: date,
	})
	require.NoError(t, err)

	// Both balances converge in the same storage transaction.
	assert.Equal(t, int64(0), factory.AccountBalance(t, fromID))
	assert.Equal(t, int64(50000), factory.AccountBalance(t, toID))
}

func TestStorage_TenantIsolation(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateUser(t, "maria", "maria@example.com")
	intruderUID := factory.CreateUser(t, "carlos", "carlos@example.com")

	accountID := factory.CreateAccount(t, ownerUID, "Conta corrente", 10000)
	txID := factory.CreateTransaction(t, ownerUID, accountID, 5000,
		models.TransactionExpense, "mercado", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	// A foreign record reads, updates and deletes as if it did not exist.
	_, err := storage.GetAccount(ctx, intruderUID, accountID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	err = storage.UpdateAccount(ctx, intruderUID, accountID, models.Account{Name: "hacked", Type: "cash"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	err = storage.RemoveTransaction(ctx, intruderUID, txID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	accounts, err := storage.ListAccounts(ctx, intruderUID)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	// The owner still sees everything untouched.
	got, err := storage.GetAccount(ctx, ownerUID, accountID)
	require.NoError(t, err)
	assert.Equal(t, "Conta corrente", got.Name)
}

func TestStorage_AddGoalContribution(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")

	t.Run("reaching the target flips to completed", func(t *testing.T) {
		goalID := factory.CreateGoal(t, userUID, 100000, 90000, models.GoalActive)

		goal, err := storage.AddGoalContribution(ctx, userUID, goalID, 20000)
		require.NoError(t, err)
		assert.Equal(t, models.GoalCompleted, goal.Status)
		assert.Equal(t, int64(110000), goal.CurrentAmount, "overshoot is recorded, not clamped")
	})

	t.Run("a reversal never reopens a completed goal", func(t *testing.T) {
		goalID := factory.CreateGoal(t, userUID, 100000, 100000, models.GoalCompleted)

		goal, err := storage.AddGoalContribution(ctx, userUID, goalID, -50000)
		require.NoError(t, err)
		assert.Equal(t, models.GoalCompleted, goal.Status)
		assert.Equal(t, int64(50000), goal.CurrentAmount)
	})

	t.Run("below-target contribution stays active", func(t *testing.T) {
		goalID := factory.CreateGoal(t, userUID, 100000, 0, models.GoalActive)

		goal, err := storage.AddGoalContribution(ctx, userUID, goalID, 30000)
		require.NoError(t, err)
		assert.Equal(t, models.GoalActive, goal.Status)
	})

	t.Run("foreign goal is not found", func(t *testing.T) {
		goalID := factory.CreateGoal(t, userUID, 100000, 0, models.GoalActive)
		otherUID := factory.CreateUser(t, "carlos", "carlos@example.com")

		_, err := storage.AddGoalContribution(ctx, otherUID, goalID, 1000)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestStorage_UpdateGoal(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	deadline := time.Now().AddDate(1, 0, 0)

	t.Run("lowering the target below the saved amount completes the goal", func(t *testing.T) {
		goalID := factory.CreateGoal(t, userUID, 100000, 50000, models.GoalActive)

		err := storage.UpdateGoal(ctx, userUID, goalID, models.Goal{
			Title: "Reserva", TargetAmount: 40000, Deadline: deadline,
		})
		require.NoError(t, err)

		goal, err := storage.GetGoal(ctx, userUID, goalID)
		require.NoError(t, err)
		assert.Equal(t, models.GoalCompleted, goal.Status)
		assert.Equal(t, int64(50000), goal.CurrentAmount)
	})

	t.Run("raising the target never reopens a completed goal", func(t *testing.T) {
		goalID := factory.CreateGoal(t, userUID, 50000, 50000, models.GoalCompleted)

		err := storage.UpdateGoal(ctx, userUID, goalID, models.Goal{
			Title: "Reserva maior", TargetAmount: 200000, Deadline: deadline,
		})
		require.NoError(t, err)

		goal, err := storage.GetGoal(ctx, userUID, goalID)
		require.NoError(t, err)
		assert.Equal(t, models.GoalCompleted, goal.Status)
	})

	t.Run("target above the saved amount stays active", func(t *testing.T) {
		goalID := factory.CreateGoal(t, userUID, 100000, 50000, models.GoalActive)

		err := storage.UpdateGoal(ctx, userUID, goalID, models.Goal{
			Title: "Reserva", TargetAmount: 120000, Deadline: deadline,
		})
		require.NoError(t, err)

		goal, err := storage.GetGoal(ctx, userUID, goalID)
		require.NoError(t, err)
		assert.Equal(t, models.GoalActive, goal.Status)
	})
}

func TestStorage_AddDebtPayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")

	t.Run("payments accumulate up to the total", func(t *testing.T) {
		debtID := factory.CreateDebt(t, userUID, 100000, 0)

		debt, err := storage.AddDebtPayment(ctx, userUID, debtID, 40000)
		require.NoError(t, err)
		assert.Equal(t, int64(40000), debt.PaidValue)

		debt, err = storage.AddDebtPayment(ctx, userUID, debtID, 60000)
		require.NoError(t, err)
		assert.Equal(t, int64(100000), debt.PaidValue)
	})

	t.Run("overpayment is rejected, never capped", func(t *testing.T) {
		debtID := factory.CreateDebt(t, userUID, 100000, 90000)

		_, err := storage.AddDebtPayment(ctx, userUID, debtID, 20000)
		var valErr *errs.ValidationError
		require.ErrorAs(t, err, &valErr)

		debt, err := storage.GetDebt(ctx, userUID, debtID)
		require.NoError(t, err)
		assert.Equal(t, int64(90000), debt.PaidValue, "failed payment left the debt untouched")
	})

	t.Run("missing debt is not found", func(t *testing.T) {
		_, err := storage.AddDebtPayment(ctx, userUID, 999999, 1000)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestStorage_MarkBudgetNotified(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	budgetID := factory.CreateBudgetLimit(t, userUID, "mercado", 50000)

	won, err := storage.MarkBudgetNotified(ctx, userUID, budgetID, "2026-08")
	require.NoError(t, err)
	assert.True(t, won)

	// Same period again: the stamp is already taken.
	won, err = storage.MarkBudgetNotified(ctx, userUID, budgetID, "2026-08")
	require.NoError(t, err)
	assert.False(t, won)

	// A new period wins again.
	won, err = storage.MarkBudgetNotified(ctx, userUID, budgetID, "2026-09")
	require.NoError(t, err)
	assert.True(t, won)
}

func TestStorage_CreateBudgetLimit_UniquePerCategory(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")

	_, err := storage.CreateBudgetLimit(ctx, models.BudgetLimit{
		UserUID: userUID, Category: "mercado", LimitAmount: 50000,
	})
	require.NoError(t, err)

	_, err = storage.CreateBudgetLimit(ctx, models.BudgetLimit{
		UserUID: userUID, Category: "mercado", LimitAmount: 70000,
	})
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	// Another user may use the same category.
	otherUID := factory.CreateUser(t, "carlos", "carlos@example.com")
	_, err = storage.CreateBudgetLimit(ctx, models.BudgetLimit{
		UserUID: otherUID, Category: "mercado", LimitAmount: 30000,
	})
	require.NoError(t, err)
}

func TestStorage_Sessions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")

	expiresAt := time.Now().Add(time.Hour).UTC()
	require.NoError(t, storage.CreateSession(ctx, models.Session{
		Token: "tok-active", UserUID: userUID, ExpiresAt: expiresAt,
	}))

	t.Run("duplicate token conflicts", func(t *testing.T) {
		err := storage.CreateSession(ctx, models.Session{
			Token: "tok-active", UserUID: userUID, ExpiresAt: expiresAt,
		})
		assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	t.Run("get and delete", func(t *testing.T) {
		session, err := storage.GetSession(ctx, "tok-active")
		require.NoError(t, err)
		assert.Equal(t, userUID, session.UserUID)

		require.NoError(t, storage.DeleteSession(ctx, "tok-active"))

		_, err = storage.GetSession(ctx, "tok-active")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("expired housekeeping removes only stale rows", func(t *testing.T) {
		factory.SeedDefaultSession(t, userUID, "tok-stale", time.Now().Add(-time.Hour))
		factory.SeedDefaultSession(t, userUID, "tok-fresh", time.Now().Add(time.Hour))

		removed, err := storage.DeleteExpiredSessions(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = storage.GetSession(ctx, "tok-fresh")
		assert.NoError(t, err)
	})
}

func TestStorage_SumExpensesByCategory(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	accountID := factory.CreateAccount(t, userUID, "Conta", 0)

	aug := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	jul := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	factory.CreateTransaction(t, userUID, accountID, 12000, models.TransactionExpense, "mercado", aug)
	factory.CreateTransaction(t, userUID, accountID, 8000, models.TransactionExpense, "mercado", aug)
	factory.CreateTransaction(t, userUID, accountID, 5000, models.TransactionExpense, "mercado", jul)
	factory.CreateTransaction(t, userUID, accountID, 99999, models.TransactionIncome, "mercado", aug)
	factory.CreateTransaction(t, userUID, accountID, 7000, models.TransactionExpense, "transporte", aug)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	total, err := storage.SumExpensesByCategory(ctx, userUID, "mercado", from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), total, "only expenses of the category within the period count")
}

func TestStorage_EndToEndFlow(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, testUser("maria", "maria@example.com"))
	require.NoError(t, err)

	require.NoError(t, storage.CreateSession(ctx, models.Session{
		Token: "tok-e2e", UserUID: uid, ExpiresAt: time.Now().Add(time.Hour),
	}))
	session, err := storage.GetSession(ctx, "tok-e2e")
	require.NoError(t, err)
	require.Equal(t, uid, session.UserUID)

	accountID, err := storage.CreateAccount(ctx, models.Account{
		UserUID: uid, Name: "Conta corrente", Type: "checking", Bank: "Nubank",
	}, 2)
	require.NoError(t, err)

	txID, err := storage.CreateTransaction(ctx, models.Transaction{
		UserUID: uid, AccountID: accountID, Description: "Salário",
		Amount: 50000, Type: models.TransactionIncome, Category: "salario",
		Date: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	account, err := storage.GetAccount(ctx, uid, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), account.Balance)

	require.NoError(t, storage.RemoveTransaction(ctx, uid, txID))

	account, err = storage.GetAccount(ctx, uid, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance)
}

func TestStorage_CreateFamilyMember_QuotaGuard(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")

	_, err := storage.CreateFamilyMember(ctx, models.FamilyMember{
		UserUID: userUID, Name: "João", Email: "joao@example.com",
	}, 1)
	require.NoError(t, err)

	_, err = storage.CreateFamilyMember(ctx, models.FamilyMember{
		UserUID: userUID, Name: "Ana", Email: "ana@example.com",
	}, 1)
	var quotaErr *errs.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "family_members", quotaErr.Resource)

	count, err := storage.CountFamilyMembers(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
