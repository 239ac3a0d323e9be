package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/expense-tracker/internal/config"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/repository"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}
}

func newTestAuthService() (*AuthService, repository.UserRepository) {
	users := repository.NewMemoryUserRepository()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users})
	return svc, users
}

func registerAlice(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "pw123",
		ConfirmPassword: "pw123",
	})
	require.NoError(t, err)
	return user
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRegister(t *testing.T) {
	t.Run("Defaults To User Role", func(t *testing.T) {
		svc, _ := newTestAuthService()
		user := registerAlice(t, svc)
		require.Equal(t, domain.RoleUser, user.Role)
		require.NotEqual(t, "pw123", user.PasswordHash)
	})

	t.Run("Explicit Role Honored", func(t *testing.T) {
		svc, _ := newTestAuthService()
		user, err := svc.Register(context.Background(), RegisterInput{
			Username:        "root",
			Email:           "root@x.com",
			Password:        "pw123",
			ConfirmPassword: "pw123",
			Role:            "admin",
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, user.Role)
	})

	t.Run("Duplicate Username", func(t *testing.T) {
		svc, _ := newTestAuthService()
		registerAlice(t, svc)

		_, err := svc.Register(context.Background(), RegisterInput{
			Username:        "alice",
			Email:           "other@x.com",
			Password:        "pw123",
			ConfirmPassword: "pw123",
		})
		requireStatus(t, err, 400)
		require.Contains(t, err.Error(), "Username is already taken")
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		svc, _ := newTestAuthService()
		registerAlice(t, svc)

		_, err := svc.Register(context.Background(), RegisterInput{
			Username:        "alice2",
			Email:           "a@x.com",
			Password:        "pw123",
			ConfirmPassword: "pw123",
		})
		requireStatus(t, err, 400)
		require.Contains(t, err.Error(), "Email is already in use")
	})

	t.Run("Password Mismatch", func(t *testing.T) {
		svc, _ := newTestAuthService()
		_, err := svc.Register(context.Background(), RegisterInput{
			Username:        "bob",
			Email:           "b@x.com",
			Password:        "pw123",
			ConfirmPassword: "pw124",
		})
		requireStatus(t, err, 400)
		require.Contains(t, err.Error(), "Passwords do not match")
	})

	t.Run("Unknown Role Rejected", func(t *testing.T) {
		svc, _ := newTestAuthService()
		_, err := svc.Register(context.Background(), RegisterInput{
			Username:        "bob",
			Email:           "b@x.com",
			Password:        "pw123",
			ConfirmPassword: "pw123",
			Role:            "SUPERUSER",
		})
		requireStatus(t, err, 400)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success Issues Token With Subject And Role", func(t *testing.T) {
		svc, _ := newTestAuthService()
		registerAlice(t, svc)

		user, token, expiresAt, err := svc.Login(context.Background(), "a@x.com", "pw123")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
		require.False(t, expiresAt.IsZero())

		claims, err := svc.TokenManager().Verify(token)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Subject)
		require.Equal(t, domain.RoleUser, claims.Role)
	})

	t.Run("Unknown Email Is Unauthorized Not Internal", func(t *testing.T) {
		svc, _ := newTestAuthService()
		_, _, _, err := svc.Login(context.Background(), "nobody@x.com", "pw123")
		requireStatus(t, err, 401)
	})

	t.Run("Wrong Password Is Unauthorized Not Internal", func(t *testing.T) {
		svc, _ := newTestAuthService()
		registerAlice(t, svc)

		_, _, _, err := svc.Login(context.Background(), "a@x.com", "wrong")
		requireStatus(t, err, 401)
	})

	t.Run("Email Lookup Is Case Insensitive", func(t *testing.T) {
		svc, _ := newTestAuthService()
		registerAlice(t, svc)

		_, _, _, err := svc.Login(context.Background(), "A@X.com", "pw123")
		require.NoError(t, err)
	})
}

func TestLogoutIsStateless(t *testing.T) {
	svc, _ := newTestAuthService()
	registerAlice(t, svc)

	_, token, _, err := svc.Login(context.Background(), "a@x.com", "pw123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	// no revocation exists; the token stays valid until expiry
	_, err = svc.TokenManager().Verify(token)
	require.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestAuthService()
	registered := registerAlice(t, svc)

	user, err := svc.CurrentUser(context.Background(), domain.Identity{Subject: "alice", Role: domain.RoleUser})
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = svc.CurrentUser(context.Background(), domain.Identity{Subject: "ghost", Role: domain.RoleUser})
	requireStatus(t, err, 401)
}
