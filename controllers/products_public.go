package controllers

import (
	"github.com/gofiber/fiber/v2"

	"laptopshop/catalog"
)

// ListLaptops returns the catalog newest first, optionally narrowed by
// ?brand= and ?search=.
func (h *Handler) ListLaptops(c *fiber.Ctx) error {
	laptops, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(catalog.Filter(laptops, c.Query("brand"), c.Query("search")))
}

func (h *Handler) ListBrands(c *fiber.Ctx) error {
	laptops, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(catalog.Brands(laptops))
}

func (h *Handler) GetLaptop(c *fiber.Ctx) error {
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	laptop, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(laptop)
}
