package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/domain"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// Requirement is the access level a route demands.
type Requirement int

const (
	// Public routes are reachable without an identity.
	Public Requirement = iota
	// AuthenticatedAny requires any authenticated identity.
	AuthenticatedAny
	// RequiresRole requires an authenticated identity holding a specific role.
	RequiresRole
)

// Rule binds a path pattern to an access requirement. Patterns are either
// literal paths or prefix wildcards ending in "/*".
type Rule struct {
	Pattern     string
	Requirement Requirement
	Role        domain.Role
}

// PublicRule declares a publicly reachable pattern.
func PublicRule(pattern string) Rule {
	return Rule{Pattern: pattern, Requirement: Public}
}

// AuthenticatedRule declares a pattern reachable by any authenticated caller.
func AuthenticatedRule(pattern string) Rule {
	return Rule{Pattern: pattern, Requirement: AuthenticatedAny}
}

// RoleRule declares a pattern gated to a single role.
func RoleRule(pattern string, role domain.Role) Rule {
	return Rule{Pattern: pattern, Requirement: RequiresRole, Role: role}
}

// Policy is an ordered first-match rule set. Paths matching no rule fall back
// to AuthenticatedAny, so forgetting to list a new route can only make it
// more restrictive, never public.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from ordered rules.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Match returns the first rule whose pattern covers the path, or the default
// AuthenticatedAny rule.
func (p *Policy) Match(path string) Rule {
	for _, rule := range p.rules {
		if matchPattern(rule.Pattern, path) {
			return rule
		}
	}
	return Rule{Pattern: path, Requirement: AuthenticatedAny}
}

// Enforce evaluates the matched rule against the identity context. It runs
// after the identity filter and before the handler.
func (p *Policy) Enforce() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rule := p.Match(c.Path())
		if rule.Requirement == Public {
			return c.Next()
		}

		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if rule.Requirement == RequiresRole && identity.Role != rule.Role {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}
