package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

// ExpenseRepository encapsulates expense persistence.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	Update(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Expense, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository instantiates repository.
func NewExpenseRepository(pool *pgxpool.Pool) ExpenseRepository {
	return &expenseRepository{pool: pool}
}

const expenseColumns = `id, user_id, title, amount, expense_date, category, description, created_at, updated_at`

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	const query = `
        INSERT INTO expenses (user_id, title, amount, expense_date, category, description)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		expense.UserID,
		expense.Title,
		expense.Amount,
		expense.Date,
		expense.Category,
		expense.Description,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
}

func (r *expenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	const query = `
        UPDATE expenses SET title=$1, amount=$2, expense_date=$3, category=$4, description=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		expense.Title,
		expense.Amount,
		expense.Date,
		expense.Category,
		expense.Description,
		expense.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	const query = `SELECT ` + expenseColumns + ` FROM expenses WHERE id=$1`

	var expense domain.Expense
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Title,
		&expense.Amount,
		&expense.Date,
		&expense.Category,
		&expense.Description,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM expenses WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *expenseRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM expenses WHERE user_id=$1`

	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *expenseRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const query = `SELECT ` + expenseColumns + ` FROM expenses
        WHERE user_id=$1 ORDER BY expense_date DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.UserID,
			&expense.Title,
			&expense.Amount,
			&expense.Date,
			&expense.Category,
			&expense.Description,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, expense)
	}
	return result, rows.Err()
}

func (r *expenseRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM expenses WHERE user_id=$1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
