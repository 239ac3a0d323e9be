package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

// memoryUserRepository is an in-memory UserRepository used when no Postgres
// DSN is configured and throughout the test suite. It mirrors the Postgres
// implementation's contract, including pgx.ErrNoRows for missing rows.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

// NewMemoryUserRepository returns an in-memory implementation.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createLocked(user)
	return nil
}

// createLocked inserts the user. Callers must hold r.mu.
func (r *memoryUserRepository) createLocked(user *domain.User) {
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
}

func (r *memoryUserRepository) CreateIfAbsent(_ context.Context, user *domain.User) (bool, error) {
	// The existence scan and the insert must happen under one lock
	// acquisition, matching the single-statement ON CONFLICT insert of
	// the Postgres implementation.
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return false, nil
		}
	}
	r.createLocked(user)
	return true, nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *memoryUserRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

// memoryExpenseRepository is the in-memory ExpenseRepository counterpart.
type memoryExpenseRepository struct {
	mu       sync.Mutex
	expenses map[string]*domain.Expense
}

// NewMemoryExpenseRepository returns an in-memory implementation.
func NewMemoryExpenseRepository() ExpenseRepository {
	return &memoryExpenseRepository{expenses: make(map[string]*domain.Expense)}
}

func (r *memoryExpenseRepository) Create(_ context.Context, expense *domain.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	expense.ID = uuid.NewString()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	stored := *expense
	r.expenses[expense.ID] = &stored
	return nil
}

func (r *memoryExpenseRepository) Update(_ context.Context, expense *domain.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[expense.ID]; !ok {
		return pgx.ErrNoRows
	}
	expense.UpdatedAt = time.Now()
	stored := *expense
	r.expenses[expense.ID] = &stored
	return nil
}

func (r *memoryExpenseRepository) GetByID(_ context.Context, id string) (*domain.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if expense, ok := r.expenses[id]; ok {
		copied := *expense
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryExpenseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.expenses, id)
	return nil
}

func (r *memoryExpenseRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, expense := range r.expenses {
		if expense.UserID == userID {
			delete(r.expenses, id)
		}
	}
	return nil
}

func (r *memoryExpenseRepository) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.Lock()
	owned := make([]domain.Expense, 0)
	for _, expense := range r.expenses {
		if expense.UserID == userID {
			owned = append(owned, *expense)
		}
	}
	r.mu.Unlock()

	sort.Slice(owned, func(i, j int) bool { return owned[i].Date.After(owned[j].Date) })
	if offset >= len(owned) {
		return nil, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (r *memoryExpenseRepository) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, expense := range r.expenses {
		if expense.UserID == userID {
			count++
		}
	}
	return count, nil
}
