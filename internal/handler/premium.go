package handler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetPricing(c *fiber.Ctx) error {
	plan := h.premiumSvc.GetActivePlan(c.Context())
	return c.JSON(plan)
}

func (h *Handler) ListPlans(c *fiber.Ctx) error {
	limit, offset := pageParams(c)

	plans, err := h.premiumSvc.ListPlans(c.Context(), limit, offset)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"plans": plans,
	})
}

func (h *Handler) GetPremiumStatus(c *fiber.Ctx) error {
	deviceID := c.Params("device_id")
	if deviceID == "" {
		return badRequest(c, "device_id is required")
	}

	status, err := h.premiumSvc.Status(c.Context(), deviceID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(status)
}

type ActivatePremiumRequest struct {
	DeviceID string `json:"device_id"`
}

func (h *Handler) ActivatePremium(c *fiber.Ctx) error {
	var req ActivatePremiumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.DeviceID == "" {
		return badRequest(c, "device_id is required")
	}

	user, err := h.premiumSvc.Activate(c.Context(), req.DeviceID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(user)
}

type UpdatePricingRequest struct {
	PlanName     string `json:"plan_name"`
	Price        int64  `json:"price"`
	DurationDays int    `json:"duration_days"`
}

func (h *Handler) UpdatePricing(c *fiber.Ctx) error {
	var req UpdatePricingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.PlanName == "" {
		return badRequest(c, "plan_name is required")
	}
	if req.Price <= 0 || req.DurationDays <= 0 {
		return badRequest(c, "price and duration_days must be positive")
	}

	plan, err := h.premiumSvc.UpdatePricing(c.Context(), req.PlanName, req.Price, req.DurationDays)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(plan)
}
