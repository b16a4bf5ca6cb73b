package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sosnovich/skyward/internal/dto"
	"github.com/sosnovich/skyward/internal/security"
)

// RequireRole gates a route on the role hierarchy. A request without a
// principal is unauthenticated (401); a principal whose role does not
// satisfy the requirement is forbidden (403).
func RequireRole(required security.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !principal.Role.Satisfies(required) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Forbidden: insufficient role",
			})
		}
		return c.Next()
	}
}
