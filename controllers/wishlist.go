package controllers

import (
	"github.com/gofiber/fiber/v2"

	"laptopshop/models"
)

func (h *Handler) GetWishlist(c *fiber.Ctx) error {
	s, ok := h.existing(c)
	if !ok {
		return c.JSON(fiber.Map{"items": []models.WishlistItem{}})
	}
	return c.JSON(fiber.Map{"items": s.Wishlist.List()})
}

func (h *Handler) AddToWishlist(c *fiber.Ctx) error {
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

	laptop, err := h.Catalog.Get(c.UserContext(), in.LaptopID)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Wishlist.Add(models.WishlistItemFromLaptop(laptop)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"items": s.Wishlist.List()})
}

func (h *Handler) InWishlist(c *fiber.Ctx) error {
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	s, ok := h.existing(c)
	return c.JSON(fiber.Map{"id": id, "saved": ok && s.Wishlist.Contains(id)})
}

func (h *Handler) RemoveFromWishlist(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Wishlist.Remove(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": s.Wishlist.List()})
}

// MoveWishlistToCart adds one unit of a saved laptop to the cart under
// the same stock rules as AddToCart.
func (h *Handler) MoveWishlistToCart(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Wishlist.MoveToCart(c.UserContext(), id, h.Catalog, s.Cart); err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartBody(s))
}
