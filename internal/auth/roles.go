package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connect4change/platform/internal/domain"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// RequireAuth ensures the caller carries a valid principal.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireOrganization restricts a route to ngo and government accounts.
func RequireOrganization() fiber.Handler {
	return RequireRole(domain.RoleNgo, domain.RoleGovernment)
}
