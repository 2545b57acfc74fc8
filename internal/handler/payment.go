package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreatePaymentIntentRequest struct {
	DeviceID     string  `json:"device_id"`
	UPIReference *string `json:"upi_reference,omitempty"`
}

func (h *Handler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req CreatePaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.DeviceID == "" {
		return badRequest(c, "device_id is required")
	}

	intent, err := h.paymentSvc.CreateIntent(c.Context(), req.DeviceID, req.UPIReference)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(intent)
}

func (h *Handler) GetPaymentIntent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid payment id")
	}

	intent, err := h.paymentSvc.GetIntent(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(intent)
}

type ApprovePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

func (h *Handler) ApprovePayment(c *fiber.Ctx) error {
	var req ApprovePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	id, err := uuid.Parse(req.PaymentID)
	if err != nil {
		return badRequest(c, "invalid payment id")
	}

	intent, user, err := h.paymentSvc.Approve(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"payment": intent,
		"user":    user,
	})
}
