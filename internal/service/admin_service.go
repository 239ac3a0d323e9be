package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/config"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/events"
	"github.com/spec-kit/expense-tracker/internal/repository"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// AdminService carries privileged account management and the one-time
// admin provisioning.
type AdminService struct {
	users      repository.UserRepository
	expenses   repository.ExpenseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	seed       config.AdminSeedConfig
	bcryptCost int
}

// NewAdminService builds the service.
func NewAdminService(cfg config.Config, users repository.UserRepository, expenses repository.ExpenseRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AdminService {
	return &AdminService{
		users:      users,
		expenses:   expenses,
		dispatcher: dispatcher,
		logger:     logger,
		seed:       cfg.AdminSeed,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// SeedAdmin provisions the configured privileged account. The insert is
// atomic (insert-if-absent), so concurrent process starts cannot race into
// a duplicate; an already present account is success.
func (s *AdminService) SeedAdmin(ctx context.Context) error {
	if !s.seed.Enabled {
		return nil
	}
	if s.seed.Email == "" || s.seed.Password == "" {
		return errors.New("admin seed enabled but ADMIN_EMAIL or ADMIN_PASSWORD missing")
	}

	hash, err := auth.HashPassword(s.seed.Password, s.bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     s.seed.Username,
		Email:        s.seed.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	inserted, err := s.users.CreateIfAbsent(ctx, admin)
	if err != nil {
		return err
	}

	if inserted {
		s.logger.Info("admin account created", zap.String("email", s.seed.Email))
	} else {
		s.logger.Info("admin account already exists", zap.String("email", s.seed.Email))
	}
	return nil
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UserExpenses returns one page of a user's expenses.
func (s *AdminService) UserExpenses(ctx context.Context, userID string, page, pageSize int) (*ExpensePage, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
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

// UpdateUserRole changes an account's role.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID string, role domain.Role) error {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	s.publish(ctx, events.EventRoleChanged, user.Username, events.RoleChangedPayload{
		OldRole: user.Role,
		NewRole: role,
	})
	return nil
}

// DeleteUser removes an account together with its expenses.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.expenses.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.publish(ctx, events.EventUserDeleted, user.Username, events.UserDeletedPayload{
		Username: user.Username,
		Email:    user.Email,
	})
	return nil
}

func (s *AdminService) requireUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, err
	}
	return user, nil
}

func (s *AdminService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
