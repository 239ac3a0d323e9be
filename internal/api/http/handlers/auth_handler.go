package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/dto"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User registered successfully",
		"data":    userResponse(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			Username:  user.Username,
			Email:     user.Email,
			Role:      string(user.Role),
		},
	})
}

// Logout handles POST /auth/logout. Tokens are stateless; there is nothing
// to revoke server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context(), ""); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me handles GET /auth/me. The identity comes strictly from the verified
// token; no server-side session state is consulted.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.auth.CurrentUser(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
