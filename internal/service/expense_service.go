package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/repository"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// ExpenseService owns the expense CRUD flows. Every operation is scoped to
// the calling identity; an expense belonging to someone else is reported as
// not found rather than forbidden, so record existence does not leak.
type ExpenseService struct {
	users    repository.UserRepository
	expenses repository.ExpenseRepository
}

// NewExpenseService builds the service.
func NewExpenseService(users repository.UserRepository, expenses repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{users: users, expenses: expenses}
}

// ExpenseInput carries create/update payloads.
type ExpenseInput struct {
	Title       string
	Amount      float64
	Date        time.Time
	Category    string
	Description string
}

// ExpensePage is a paginated expense listing.
type ExpensePage struct {
	Items    []domain.Expense
	Total    int64
	Page     int
	PageSize int
}

// Create records a new expense for the identity's account.
func (s *ExpenseService) Create(ctx context.Context, identity domain.Identity, input ExpenseInput) (*domain.Expense, error) {
	owner, err := s.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}

	expense, err := buildExpense(owner.ID, input)
	if err != nil {
		return nil, err
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// List returns one page of the identity's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, identity domain.Identity, page, pageSize int) (*ExpensePage, error) {
	owner, err := s.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.pageForUser(ctx, owner.ID, page, pageSize)
}

// Get fetches a single expense owned by the identity.
func (s *ExpenseService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Expense, error) {
	owner, err := s.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.ownedExpense(ctx, owner.ID, id)
}

// Update replaces the mutable fields of an owned expense.
func (s *ExpenseService) Update(ctx context.Context, identity domain.Identity, id string, input ExpenseInput) (*domain.Expense, error) {
	owner, err := s.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	expense, err := s.ownedExpense(ctx, owner.ID, id)
	if err != nil {
		return nil, err
	}

	updated, err := buildExpense(owner.ID, input)
	if err != nil {
		return nil, err
	}
	updated.ID = expense.ID
	updated.CreatedAt = expense.CreatedAt
	if err := s.expenses.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an owned expense.
func (s *ExpenseService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	owner, err := s.resolveOwner(ctx, identity)
	if err != nil {
		return err
	}
	if _, err := s.ownedExpense(ctx, owner.ID, id); err != nil {
		return err
	}
	return s.expenses.Delete(ctx, id)
}

func (s *ExpenseService) resolveOwner(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("unknown subject")
		}
		return nil, err
	}
	return user, nil
}

func (s *ExpenseService) ownedExpense(ctx context.Context, ownerID, id string) (*domain.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("expense", nil)
		}
		return nil, err
	}
	if expense.UserID != ownerID {
		return nil, apperrors.NewNotFound("expense", nil)
	}
	return expense, nil
}

func (s *ExpenseService) pageForUser(ctx context.Context, userID string, page, pageSize int) (*ExpensePage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	items, err := s.expenses.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.expenses.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ExpensePage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func buildExpense(ownerID string, input ExpenseInput) (*domain.Expense, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}
	category, err := domain.ParseExpenseCategory(input.Category)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	return &domain.Expense{
		UserID:      ownerID,
		Title:       strings.TrimSpace(input.Title),
		Amount:      input.Amount,
		Date:        date,
		Category:    category,
		Description: strings.TrimSpace(input.Description),
	}, nil
}
