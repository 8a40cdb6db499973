package middleware

import (
	"strings"

	"github.com/alexanderramin/ponto/internal/handler/problem"
	"github.com/alexanderramin/ponto/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// Auth validates the bearer token and stores its claims for downstream handlers.
func Auth(tokens *jwt.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return problem.Write(c, fiber.StatusUnauthorized, "unauthorized", "Unauthorized", "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return problem.Write(c, fiber.StatusUnauthorized, "unauthorized", "Unauthorized", "invalid authorization header format")
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return problem.Write(c, fiber.StatusUnauthorized, "unauthorized", "Unauthorized", "invalid token")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireRole lets the request through if the caller holds any of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return problem.Write(c, fiber.StatusUnauthorized, "unauthorized", "Unauthorized", "missing credentials")
		}
		for _, role := range roles {
			if claims.HasRole(role) {
				return c.Next()
			}
		}
		return problem.Write(c, fiber.StatusForbidden, "forbidden", "Forbidden",
			"requires one of roles: "+strings.Join(roles, ", "))
	}
}

// ClaimsFrom returns the claims stored by Auth, or nil.
func ClaimsFrom(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(claimsKey).(*jwt.Claims)
	return claims
}
