package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/dto"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// ExpensesHandler manages the owner-scoped expense endpoints.
type ExpensesHandler struct {
	service *service.ExpenseService
}

// NewExpensesHandler constructs handler.
func NewExpensesHandler(expenseService *service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{service: expenseService}
}

// Create POST /expenses.
func (h *ExpensesHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseExpenseBody(c)
	if err != nil {
		return err
	}

	expense, err := h.service.Create(c.Context(), identity, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": expenseResponse(expense)})
}

// List GET /expenses.
func (h *ExpensesHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	page, err := h.service.List(c.Context(), identity, queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pageResponse(page)})
}

// Get GET /expenses/:id.
func (h *ExpensesHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	expense, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": expenseResponse(expense)})
}

// Update PUT /expenses/:id.
func (h *ExpensesHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseExpenseBody(c)
	if err != nil {
		return err
	}

	expense, err := h.service.Update(c.Context(), identity, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": expenseResponse(expense)})
}

// Delete DELETE /expenses/:id.
func (h *ExpensesHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.service.Delete(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "expense deleted"})
}

func parseExpenseBody(c *fiber.Ctx) (service.ExpenseInput, error) {
	var req dto.ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ExpenseInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.ExpenseInput{
		Title:       req.Title,
		Amount:      req.Amount,
		Date:        req.Date,
		Category:    req.Category,
		Description: req.Description,
	}, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	val := c.Query(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func expenseResponse(expense *domain.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          expense.ID,
		Title:       expense.Title,
		Amount:      expense.Amount,
		Date:        expense.Date,
		Category:    string(expense.Category),
		Description: expense.Description,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}

func pageResponse(page *service.ExpensePage) dto.PageResponse {
	items := make([]dto.ExpenseResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, expenseResponse(&page.Items[i]))
	}
	return dto.PageResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}
