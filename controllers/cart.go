package controllers

import (
	"github.com/gofiber/fiber/v2"

	"laptopshop/models"
	"laptopshop/session"
)

type cartItemInput struct {
	LaptopID int `json:"laptop_id"`
	Quantity int `json:"quantity"`
}

func cartBody(s *session.Session) fiber.Map {
	if s == nil {
		return fiber.Map{"items": []models.CartItem{}, "count": 0, "total": 0}
	}
	return fiber.Map{
		"items": s.Cart.Items(),
		"count": s.Cart.Count(),
		"total": s.Cart.Total(),
	}
}

func (h *Handler) GetCart(c *fiber.Ctx) error {
	s, _ := h.existing(c)
	return c.JSON(cartBody(s))
}

// AddToCart looks the laptop up so the cart line carries current catalog
// details. Quantity defaults to 1.
func (h *Handler) AddToCart(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	var in cartItemInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.LaptopID <= 0 {
		return respondError(c, &models.ValidationError{Message: "laptop_id is required", Fields: []string{"laptop_id"}})
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	laptop, err := h.Catalog.Get(c.UserContext(), in.LaptopID)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Cart.AddLaptop(laptop, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cartBody(s))
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func (h *Handler) UpdateCartItem(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in cartItemInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := s.Cart.SetQuantity(id, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartBody(s))
}

func (h *Handler) RemoveCartItem(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Cart.Remove(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartBody(s))
}

func (h *Handler) ClearCart(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Cart.Clear(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartBody(s))
}
