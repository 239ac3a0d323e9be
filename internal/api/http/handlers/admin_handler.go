package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/dto"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// AdminHandler exposes the ADMIN-gated account management endpoints. The
// role gate itself lives in the route policy, not here.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		return err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UserExpenses GET /admin/users/:id/expenses.
func (h *AdminHandler) UserExpenses(c *fiber.Ctx) error {
	page, err := h.service.UserExpenses(c.Context(), c.Params("id"),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pageResponse(page)})
}

// UpdateUserRole PUT /admin/users/:id/role.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	if err := h.service.UpdateUserRole(c.Context(), c.Params("id"), role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "role updated"})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
