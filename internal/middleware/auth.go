// Package middleware holds the fiber middleware that authenticates callers
// and enforces the access policy on each route.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/auth"
	"github.com/vaitahavya/morandi-sub002/internal/policy"
)

// Locals keys set by Authenticate.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// TokenParser verifies an access token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate reads an optional Bearer token. Requests without one continue
// as the anonymous role. A present but invalid token is rejected with 401.
func Authenticate(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalRole, policy.RoleAnonymous)

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c, "invalid authorization header")
		}

		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected access token")
			return unauthorized(c, auth.ErrInvalidToken.Error())
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequirePermission lets the request through only if the caller's role may
// perform action on resource. Anonymous callers get 401, signed-in ones 403.
func RequirePermission(resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		if policy.Allow(role, resource, action) {
			return c.Next()
		}

		if role == policy.RoleAnonymous {
			return unauthorized(c, "authentication required")
		}

		log.Warn().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("role", role).
			Str("resource", resource).
			Str("action", action).
			Msg("permission denied")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "forbidden"})
	}
}

// Role returns the caller's role, anonymous when none was set.
func Role(c *fiber.Ctx) string {
	if role, ok := c.Locals(LocalRole).(string); ok && role != "" {
		return role
	}
	return policy.RoleAnonymous
}

// UserID returns the authenticated caller's id, 0 for anonymous requests.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": msg})
}
