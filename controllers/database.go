package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"laptopshop/catalog"
	"laptopshop/condb"
)

func noDatabase(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Database not configured"})
}

// InitDB creates the schema and seeds the default laptops into an empty
// catalog. It is safe to call repeatedly.
func (h *Handler) InitDB(c *fiber.Ctx) error {
	if h.DB == nil {
		return noDatabase(c)
	}
	res, err := condb.Init(c.UserContext(), h.DB, catalog.DefaultLaptops(), h.Seed)
	if err != nil {
		log.Errorw("database init failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database initialization failed",
			"details": err.Error(),
		})
	}
	log.Infow("database initialized", "seeded", res.DefaultLaptopsAdded)
	return c.JSON(res)
}

func (h *Handler) DBStatus(c *fiber.Ctx) error {
	if h.DB == nil {
		return noDatabase(c)
	}
	st, err := condb.Check(c.UserContext(), h.DB)
	if err != nil {
		log.Errorw("database check failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": st.Status,
			"error":  err.Error(),
		})
	}
	return c.JSON(st)
}
