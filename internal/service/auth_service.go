package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/config"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/events"
	"github.com/spec-kit/expense-tracker/internal/repository"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	limiter    *auth.LoginLimiter
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *auth.LoginLimiter
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
}

// Register creates a new account. Duplicate identity and password mismatch
// surface as validation failures with user-facing messages.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username, email and password are required", nil)
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("Passwords do not match", nil)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewValidationError("Username is already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("Email is already in use", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	role := domain.RoleUser
	if input.Role != "" {
		parsed, err := domain.ParseRole(input.Role)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		role = parsed
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.Username, events.UserRegisteredPayload{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	return user, nil
}

// Login authenticates by email and password and issues a token. Unknown
// email and wrong password are indistinguishable to the caller: both map to
// a 401, never an internal fault.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.limiter.Check(ctx, email); err != nil {
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("too many failed login attempts")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.denyLogin(ctx, email, "unknown email")
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.denyLogin(ctx, email, "password mismatch")
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.Issue(domain.Identity{Subject: user.Username, Role: user.Role})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.limiter.Reset(ctx, email)
	s.publish(ctx, events.EventUserLoggedIn, user.Username, events.UserLoggedInPayload{
		Email:     user.Email,
		ExpiresAt: expiresAt,
	})
	return user, token, expiresAt, nil
}

// Logout is a stateless acknowledgement; no server-side revocation exists.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// CurrentUser resolves the account behind a verified identity.
func (s *AuthService) CurrentUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("unknown subject")
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) denyLogin(ctx context.Context, email, reason string) {
	s.limiter.RecordFailure(ctx, email)
	s.publish(ctx, events.EventLoginDenied, email, events.LoginDeniedPayload{
		Email:  email,
		Reason: reason,
	})
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
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
