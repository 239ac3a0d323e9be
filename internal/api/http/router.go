package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/http/handlers"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Expenses       *handlers.ExpensesHandler
	Admin          *handlers.AdminHandler
	IdentityFilter *auth.IdentityFilter
}

// AccessPolicy is the ordered route rule set. First match wins; anything not
// listed requires an authenticated caller.
func AccessPolicy() *auth.Policy {
	return auth.NewPolicy(
		auth.PublicRule("/health/*"),
		auth.PublicRule("/auth/register"),
		auth.PublicRule("/auth/login"),
		auth.PublicRule("/auth/logout"),
		auth.AuthenticatedRule("/auth/me"),
		auth.RoleRule("/admin/*", domain.RoleAdmin),
		auth.AuthenticatedRule("/expenses/*"),
	)
}

// RegisterRoutes wires the identity filter, the access policy, and the HTTP
// routes, in that order.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.IdentityFilter.Handle)
	app.Use(AccessPolicy().Enforce())

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Auth.Me)

	expenses := app.Group("/expenses")
	expenses.Post("/", cfg.Expenses.Create)
	expenses.Get("/", cfg.Expenses.List)
	expenses.Get("/:id", cfg.Expenses.Get)
	expenses.Put("/:id", cfg.Expenses.Update)
	expenses.Delete("/:id", cfg.Expenses.Delete)

	admin := app.Group("/admin")
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/users/:id/expenses", cfg.Admin.UserExpenses)
	admin.Put("/users/:id/role", cfg.Admin.UpdateUserRole)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
}
