package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/repository"
)

func newTestExpenseService(t *testing.T) (*ExpenseService, domain.Identity, domain.Identity) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	expenses := repository.NewMemoryExpenseRepository()

	alice := &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "x", Role: domain.RoleUser}
	bob := &domain.User{Username: "bob", Email: "b@x.com", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), alice))
	require.NoError(t, users.Create(context.Background(), bob))

	return NewExpenseService(users, expenses),
		domain.Identity{Subject: "alice", Role: domain.RoleUser},
		domain.Identity{Subject: "bob", Role: domain.RoleUser}
}

func validInput() ExpenseInput {
	return ExpenseInput{
		Title:    "groceries",
		Amount:   42.5,
		Date:     time.Now(),
		Category: "food",
	}
}

func TestExpenseCreate(t *testing.T) {
	svc, alice, _ := newTestExpenseService(t)

	expense, err := svc.Create(context.Background(), alice, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, expense.ID)
	require.Equal(t, domain.CategoryFood, expense.Category)

	t.Run("Unknown Category Rejected", func(t *testing.T) {
		input := validInput()
		input.Category = "LUXURY"
		_, err := svc.Create(context.Background(), alice, input)
		requireStatus(t, err, 400)
	})

	t.Run("Missing Title Rejected", func(t *testing.T) {
		input := validInput()
		input.Title = "  "
		_, err := svc.Create(context.Background(), alice, input)
		requireStatus(t, err, 400)
	})

	t.Run("Non Positive Amount Rejected", func(t *testing.T) {
		input := validInput()
		input.Amount = 0
		_, err := svc.Create(context.Background(), alice, input)
		requireStatus(t, err, 400)
	})

	t.Run("Unknown Subject Is Unauthorized", func(t *testing.T) {
		_, err := svc.Create(context.Background(), domain.Identity{Subject: "ghost", Role: domain.RoleUser}, validInput())
		requireStatus(t, err, 401)
	})
}

func TestExpenseOwnershipScoping(t *testing.T) {
	svc, alice, bob := newTestExpenseService(t)

	expense, err := svc.Create(context.Background(), alice, validInput())
	require.NoError(t, err)

	t.Run("Owner Can Read", func(t *testing.T) {
		got, err := svc.Get(context.Background(), alice, expense.ID)
		require.NoError(t, err)
		require.Equal(t, expense.ID, got.ID)
	})

	t.Run("Foreign Expense Looks Absent", func(t *testing.T) {
		_, err := svc.Get(context.Background(), bob, expense.ID)
		requireStatus(t, err, 404)

		_, err = svc.Update(context.Background(), bob, expense.ID, validInput())
		requireStatus(t, err, 404)

		requireStatus(t, svc.Delete(context.Background(), bob, expense.ID), 404)
	})
}

func TestExpenseUpdateAndDelete(t *testing.T) {
	svc, alice, _ := newTestExpenseService(t)

	expense, err := svc.Create(context.Background(), alice, validInput())
	require.NoError(t, err)

	input := validInput()
	input.Title = "weekly groceries"
	input.Amount = 55
	input.Category = "food"

	updated, err := svc.Update(context.Background(), alice, expense.ID, input)
	require.NoError(t, err)
	require.Equal(t, expense.ID, updated.ID)
	require.Equal(t, "weekly groceries", updated.Title)
	require.Equal(t, expense.CreatedAt, updated.CreatedAt)

	require.NoError(t, svc.Delete(context.Background(), alice, expense.ID))
	_, err = svc.Get(context.Background(), alice, expense.ID)
	requireStatus(t, err, 404)
}

func TestExpenseListPagination(t *testing.T) {
	svc, alice, bob := newTestExpenseService(t)

	for i := 0; i < 7; i++ {
		input := validInput()
		input.Date = time.Now().Add(-time.Duration(i) * time.Hour)
		_, err := svc.Create(context.Background(), alice, input)
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), bob, validInput())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), alice, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	require.EqualValues(t, 7, page.Total)

	second, err := svc.List(context.Background(), alice, 2, 5)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)

	// newest first
	require.True(t, page.Items[0].Date.After(page.Items[4].Date))
}
