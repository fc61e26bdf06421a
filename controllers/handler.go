package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"laptopshop/auth"
	"laptopshop/cart"
	"laptopshop/catalog"
	"laptopshop/checkout"
	"laptopshop/condb"
	"laptopshop/middleware"
	"laptopshop/models"
	"laptopshop/orders"
	"laptopshop/session"
	"laptopshop/upload"
	"laptopshop/utils"
	"laptopshop/wishlist"
)

// DefaultPaymentTimeout bounds a payment request when PaymentTimeout is unset.
const DefaultPaymentTimeout = 30 * time.Second

// Handler holds the services behind every route. DB and Seed are nil when
// the server runs without Postgres.
type Handler struct {
	Catalog        catalog.Store
	Auth           *auth.Service
	Sessions       *session.Registry
	Wishlists      wishlist.Repo
	Orders         orders.Recorder
	Uploads        upload.Limits
	Tokens         *utils.JWT
	PaymentTimeout time.Duration
	DB             condb.DB
	Seed           condb.Seeder
}

// session returns the caller's session, creating it on first write.
func (h *Handler) session(c *fiber.Ctx) (*session.Session, error) {
	return h.Sessions.Get(middleware.SessionID(c))
}

// existing returns the caller's session only if it was already created.
func (h *Handler) existing(c *fiber.Ctx) (*session.Session, bool) {
	return h.Sessions.Lookup(middleware.SessionID(c))
}

func laptopID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Message: "Invalid laptop id", Fields: []string{"id"}}
	}
	return id, nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
}

// respondError maps domain errors to status codes. Anything unrecognised
// is a persistence or internal failure: it is logged and reported as 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body := fiber.Map{"error": verr.Message}
		if len(verr.Fields) > 0 {
			body["fields"] = verr.Fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	status := fiber.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		status, msg = fiber.StatusNotFound, "Laptop not found"
	case errors.Is(err, cart.ErrOutOfStock):
		status, msg = fiber.StatusBadRequest, "Laptop is out of stock"
	case errors.Is(err, catalog.ErrInUse):
		status, msg = fiber.StatusConflict, "Laptop is referenced by existing records"
	case errors.Is(err, auth.ErrMissingField),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrDuplicateEmail),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, session.ErrInvalidID),
		errors.Is(err, upload.ErrTooManyImages),
		errors.Is(err, upload.ErrNotImage),
		errors.Is(err, upload.ErrTooLarge),
		errors.Is(err, upload.ErrNoFiles),
		errors.Is(err, upload.ErrBadIndex):
		status = fiber.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, cart.ErrNotInCart), errors.Is(err, wishlist.ErrNotSaved):
		status = fiber.StatusNotFound
	case errors.Is(err, wishlist.ErrAlreadySaved), errors.Is(err, checkout.ErrInvalidTransition):
		status = fiber.StatusConflict
	case errors.Is(err, checkout.ErrPaymentDeclined):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, auth.ErrAdminDisabled):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = fiber.StatusRequestTimeout, "Request timed out"
	case errors.Is(err, context.Canceled):
		status, msg = fiber.StatusRequestTimeout, "Request cancelled"
	default:
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
