package dto

import "time"

// ExpenseRequest payload for creating or updating an expense.
type ExpenseRequest struct {
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
}

// ExpenseResponse is the wire form of an expense record.
type ExpenseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PageResponse wraps a paginated listing.
type PageResponse struct {
	Items    []ExpenseResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
