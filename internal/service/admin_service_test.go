package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/expense-tracker/internal/config"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/repository"
)

func newTestAdminService(seed config.AdminSeedConfig) (*AdminService, repository.UserRepository, repository.ExpenseRepository) {
	cfg := testConfig()
	cfg.AdminSeed = seed
	users := repository.NewMemoryUserRepository()
	expenses := repository.NewMemoryExpenseRepository()
	svc := NewAdminService(cfg, users, expenses, nil, zap.NewNop())
	return svc, users, expenses
}

func enabledSeed() config.AdminSeedConfig {
	return config.AdminSeedConfig{
		Enabled:  true,
		Username: "admin",
		Email:    "admin@x.com",
		Password: "secret",
	}
}

func TestSeedAdmin(t *testing.T) {
	t.Run("Creates Admin Account", func(t *testing.T) {
		svc, users, _ := newTestAdminService(enabledSeed())
		require.NoError(t, svc.SeedAdmin(context.Background()))

		admin, err := users.GetByEmail(context.Background(), "admin@x.com")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, admin.Role)
	})

	t.Run("Idempotent Across Repeated Starts", func(t *testing.T) {
		svc, users, _ := newTestAdminService(enabledSeed())
		require.NoError(t, svc.SeedAdmin(context.Background()))
		require.NoError(t, svc.SeedAdmin(context.Background()))

		all, err := users.List(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("Safe Under Concurrent Starts", func(t *testing.T) {
		svc, users, _ := newTestAdminService(enabledSeed())

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- svc.SeedAdmin(context.Background())
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		all, err := users.List(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("Disabled Seed Is A NoOp", func(t *testing.T) {
		svc, users, _ := newTestAdminService(config.AdminSeedConfig{Enabled: false})
		require.NoError(t, svc.SeedAdmin(context.Background()))

		all, err := users.List(context.Background())
		require.NoError(t, err)
		require.Empty(t, all)
	})

	t.Run("Enabled Without Credentials Fails", func(t *testing.T) {
		svc, _, _ := newTestAdminService(config.AdminSeedConfig{Enabled: true, Username: "admin"})
		require.Error(t, svc.SeedAdmin(context.Background()))
	})
}

func TestUpdateUserRole(t *testing.T) {
	svc, users, _ := newTestAdminService(config.AdminSeedConfig{})

	user := &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), user))

	require.NoError(t, svc.UpdateUserRole(context.Background(), user.ID, domain.RoleAdmin))

	updated, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, updated.Role)

	t.Run("Unknown User Is Not Found", func(t *testing.T) {
		requireStatus(t, svc.UpdateUserRole(context.Background(), "missing", domain.RoleAdmin), 404)
	})
}

func TestDeleteUserRemovesExpenses(t *testing.T) {
	svc, users, expenses := newTestAdminService(config.AdminSeedConfig{})

	user := &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, expenses.Create(context.Background(), &domain.Expense{
		UserID:   user.ID,
		Title:    "groceries",
		Amount:   12.5,
		Category: domain.CategoryFood,
	}))

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))

	_, err := users.GetByID(context.Background(), user.ID)
	require.Error(t, err)

	count, err := expenses.CountByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestUserExpensesPagination(t *testing.T) {
	svc, users, expenses := newTestAdminService(config.AdminSeedConfig{})

	user := &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), user))
	for i := 0; i < 25; i++ {
		require.NoError(t, expenses.Create(context.Background(), &domain.Expense{
			UserID:   user.ID,
			Title:    "item",
			Amount:   1,
			Category: domain.CategoryOthers,
		}))
	}

	page, err := svc.UserExpenses(context.Background(), user.ID, 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	require.EqualValues(t, 25, page.Total)
	require.Equal(t, 2, page.Page)

	last, err := svc.UserExpenses(context.Background(), user.ID, 3, 10)
	require.NoError(t, err)
	require.Len(t, last.Items, 5)

	t.Run("Unknown User Is Not Found", func(t *testing.T) {
		_, err := svc.UserExpenses(context.Background(), "missing", 1, 10)
		requireStatus(t, err, 404)
	})
}
