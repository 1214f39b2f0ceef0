package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/auth"
	"gymapi/internal/service"
)

// PrincipalLocalKey stores the authenticated caller in fiber locals.
const PrincipalLocalKey = "principal"

// Authenticator resolves a bearer token to a caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects requests without a valid session token and stores the
// caller under PrincipalLocalKey.
func RequireAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		p, err := a.Authenticate(c.UserContext(), token)
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		case errors.Is(err, service.ErrForbidden):
			return fiber.NewError(fiber.StatusForbidden, "user profile not found")
		case err != nil:
			c.Locals(ErrorLocalKey, err)
			return fiber.ErrInternalServerError
		}

		c.Locals(PrincipalLocalKey, p)
		return c.Next()
	}
}

// RequireRole allows the request only when the caller holds one of roles.
// It must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !p.HasRole(roles...) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// PrincipalFrom returns the caller stored by RequireAuth.
func PrincipalFrom(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(PrincipalLocalKey).(auth.Principal)
	return p, ok
}
