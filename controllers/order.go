package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"laptopshop/checkout"
)

// StartCheckout snapshots the session cart and opens the details step.
func (h *Handler) StartCheckout(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Sessions.StartCheckout(s); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.Checkout.Snapshot())
}

func (h *Handler) GetCheckout(c *fiber.Ctx) error {
	s, ok := h.existing(c)
	if !ok {
		return c.JSON(checkout.IdleSnapshot())
	}
	return c.JSON(s.Checkout.Snapshot())
}

func (h *Handler) SubmitDetails(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	var d checkout.Details
	if err := c.BodyParser(&d); err != nil {
		return badBody(c)
	}
	if err := s.Checkout.SubmitDetails(d); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Checkout.Snapshot())
}

func (h *Handler) CheckoutBack(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Checkout.Back(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Checkout.Snapshot())
}

// SubmitPayment charges the order and blocks until the processor answers
// or PaymentTimeout passes. A confirmed checkout completes on its own
// after the confirm delay.
func (h *Handler) SubmitPayment(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	var p checkout.Payment
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}

	timeout := h.PaymentTimeout
	if timeout <= 0 {
		timeout = DefaultPaymentTimeout
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
	defer cancel()

	receipt, err := s.Checkout.SubmitPayment(ctx, p)
	if err != nil {
		return respondError(c, err)
	}
	log.Infow("payment confirmed", "session", s.ID, "receipt", receipt.ID, "amount", receipt.Amount.String())
	h.Sessions.ScheduleCompletion(s)
	return c.JSON(s.Checkout.Snapshot())
}

func (h *Handler) CompleteCheckout(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Checkout.Complete(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"checkout": s.Checkout.Snapshot(),
		"cart":     cartBody(s),
	})
}

func (h *Handler) CancelCheckout(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.Checkout.Cancel(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Checkout.Snapshot())
}
