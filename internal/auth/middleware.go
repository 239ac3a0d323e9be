package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/expense-tracker/internal/config"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// IdentityFilter establishes the caller identity once per request, before any
// route handler runs. It never blocks a request on its own in anonymous mode:
// requests without a usable bearer token simply proceed unauthenticated and
// the route policy decides whether that is acceptable.
type IdentityFilter struct {
	tokens *TokenManager
	mode   config.InvalidTokenMode
	logger *zap.Logger
}

// NewIdentityFilter constructs the filter.
func NewIdentityFilter(tokens *TokenManager, mode config.InvalidTokenMode, logger *zap.Logger) *IdentityFilter {
	if mode == "" {
		mode = config.InvalidTokenAnonymous
	}
	return &IdentityFilter{tokens: tokens, mode: mode, logger: logger}
}

// Handle reads the Authorization header and populates the identity context.
func (f *IdentityFilter) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	claims, err := f.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		if f.mode == config.InvalidTokenReject {
			return apperrors.NewUnauthorized("invalid token")
		}
		if f.logger != nil {
			f.logger.Debug("token rejected, continuing anonymous",
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Next()
	}

	SetIdentity(c, claims.Identity())
	return c.Next()
}
