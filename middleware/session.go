package middleware

import (
	"github.com/gofiber/fiber/v2"

	"laptopshop/session"
)

const SessionHeader = "X-Session-ID"

// Session reads the storefront session id from the X-Session-ID header.
// A missing or malformed id is replaced with a new one, which is echoed
// back in the response header so the client can keep using it.
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if !session.ValidID(id) {
			id = session.NewID()
		}
		c.Set(SessionHeader, id)
		c.Locals("session_id", id)
		return c.Next()
	}
}

func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("session_id").(string)
	return id
}
