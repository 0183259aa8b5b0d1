package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-copilot/internal/domain"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// RequireRole ensures the principal has one of the allowed roles. With no
// roles listed any authenticated executive passes.
func RequireRole(allowed ...domain.ExecutiveRole) fiber.Handler {
	allowedSet := make(map[domain.ExecutiveRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Executive == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Executive.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
