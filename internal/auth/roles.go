package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// RequireAdmin ensures the caller holds the administrator role.
// Insufficient privilege is reported as an authorization failure, the
// same as a missing or invalid token.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsAdmin() {
			return apperrors.NewUnauthorized("not authorized")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is attached to the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("no token")
		}
		return c.Next()
	}
}
