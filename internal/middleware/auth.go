package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sosnovich/skyward/internal/repository"
	"github.com/sosnovich/skyward/internal/security"

	jwtware "github.com/gofiber/contrib/jwt"
)

// Locals keys set by the authentication gate.
const (
	tokenKey     = "user"
	principalKey = "principal"
)

// AuthGate extracts and verifies the bearer token, resolves its subject to
// a stored account and attaches a Principal to the request scope. It never
// rejects a request itself: missing, invalid or unresolvable tokens simply
// leave the request unauthenticated, and RequireRole decides downstream.
func AuthGate(codec *security.TokenCodec, users repository.UserRepository) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ContextKey: tokenKey,
		SigningKey: jwtware.SigningKey{Key: codec.SigningKey()},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Next()
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok || token == nil {
				return c.Next()
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.Next()
			}
			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				return c.Next()
			}

			user, err := users.FindByEmail(c.Context(), subject)
			if err != nil || user == nil {
				return c.Next()
			}
			role, ok := security.ParseRole(user.Role)
			if !ok {
				return c.Next()
			}

			c.Locals(principalKey, security.Principal{
				Subject: user.Email,
				UserID:  user.ID,
				Role:    role,
			})
			return c.Next()
		},
	})
}

// PrincipalFrom returns the authenticated principal of the request, if any.
func PrincipalFrom(c *fiber.Ctx) (security.Principal, bool) {
	p, ok := c.Locals(principalKey).(security.Principal)
	return p, ok
}
