package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"laptopshop/middleware"
	"laptopshop/models"
	"laptopshop/utils"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	var in models.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	user, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	log.Infow("user registered", "id", user.ID, "email", user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

// SignIn binds the user to the caller's session and returns a token
// carrying the same session id.
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var in models.SignInInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	sess, err := h.Auth.SignIn(c.UserContext(), middleware.SessionID(c), in.Email, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	h.Tokens.SetCookie(c, sess.Token)
	c.Set(middleware.SessionHeader, sess.ID)

	return c.JSON(fiber.Map{
		"message":   "Signed in successfully",
		"user":      sess.User,
		"token":     sess.Token,
		"sessionId": sess.ID,
	})
}

func (h *Handler) SignOut(c *fiber.Ctx) error {
	if err := h.Auth.SignOut(middleware.SessionID(c)); err != nil {
		return respondError(c, err)
	}
	utils.ClearCookie(c)
	return c.JSON(fiber.Map{"message": "Signed out"})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, ok := h.Auth.Current(middleware.SessionID(c))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handler) AdminSignIn(c *fiber.Ctx) error {
	var in struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	token, err := h.Auth.AdminSignIn(in.Password)
	if err != nil {
		return respondError(c, err)
	}
	h.Tokens.SetCookie(c, token)
	return c.JSON(fiber.Map{"message": "Admin signed in", "token": token})
}

// accountUser returns the user id from a customer token.
func accountUser(c *fiber.Ctx) (int, bool) {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID <= 0 {
		return 0, false
	}
	return claims.UserID, true
}

func (h *Handler) AccountWishlist(c *fiber.Ctx) error {
	userID, ok := accountUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}
	laptops, err := h.Wishlists.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(laptops)
}

func (h *Handler) AccountWishlistAdd(c *fiber.Ctx) error {
	userID, ok := accountUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Wishlists.Add(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Added to wishlist", "id": id})
}

func (h *Handler) AccountWishlistRemove(c *fiber.Ctx) error {
	userID, ok := accountUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}
	id, err := laptopID(c)
	if err != nil {
		return respondError(c, err)
	}
	removed, err := h.Wishlists.Remove(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not in wishlist"})
	}
	return c.JSON(fiber.Map{"message": "Removed from wishlist", "id": id})
}

func (h *Handler) AccountOrders(c *fiber.Ctx) error {
	userID, ok := accountUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
	}
	list, err := h.Orders.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
