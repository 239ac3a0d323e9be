package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

const identityKey = "auth_identity"

// SetIdentity records the authenticated caller for the current request. The
// identity is written at most once; later calls are no-ops so a downstream
// handler cannot overwrite what the filter established.
func SetIdentity(c *fiber.Ctx, identity domain.Identity) bool {
	if c.Locals(identityKey) != nil {
		return false
	}
	c.Locals(identityKey, identity)
	return true
}

// IdentityFromContext retrieves the caller identity. The second return is
// false for anonymous requests.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
