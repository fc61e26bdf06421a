package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"laptopshop/models"
	"laptopshop/utils"
)

// JWT accepts a bearer token or the jwt cookie and stores the parsed
// claims under "claims".
func JWT(tokens *utils.JWT) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		} else {
			token = c.Cookies("jwt")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

// RequireRole must run after JWT.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil || claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

// SessionUsers reports who is signed in to a session.
type SessionUsers interface {
	Current(sessionID string) (models.User, bool)
}

// BoundSession rejects a customer token once its session was signed out
// or is held by another user. It must run after JWT.
func BoundSession(users SessionUsers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil || claims.Session == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session ended"})
		}
		u, ok := users.Current(claims.Session)
		if !ok || u.ID != claims.UserID {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session ended"})
		}
		return c.Next()
	}
}

func Claims(c *fiber.Ctx) *utils.Claims {
	claims, _ := c.Locals("claims").(*utils.Claims)
	return claims
}
