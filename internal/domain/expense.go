package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExpenseCategory classifies an expense entry.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "FOOD"
	CategoryTransport     ExpenseCategory = "TRANSPORT"
	CategoryHousing       ExpenseCategory = "HOUSING"
	CategoryEntertainment ExpenseCategory = "ENTERTAINMENT"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryOthers        ExpenseCategory = "OTHERS"
)

// ParseExpenseCategory validates user-supplied category input.
func ParseExpenseCategory(value string) (ExpenseCategory, error) {
	switch ExpenseCategory(strings.ToUpper(strings.TrimSpace(value))) {
	case CategoryFood:
		return CategoryFood, nil
	case CategoryTransport:
		return CategoryTransport, nil
	case CategoryHousing:
		return CategoryHousing, nil
	case CategoryEntertainment:
		return CategoryEntertainment, nil
	case CategoryUtilities:
		return CategoryUtilities, nil
	case CategoryOthers:
		return CategoryOthers, nil
	default:
		return "", fmt.Errorf("invalid category: %q", value)
	}
}

// Expense is a single spending record owned by a user.
type Expense struct {
	ID          string
	UserID      string
	Title       string
	Amount      float64
	Date        time.Time
	Category    ExpenseCategory
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
