package handler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetUserByDevice(c *fiber.Ctx) error {
	deviceID := c.Params("device_id")
	if deviceID == "" {
		return badRequest(c, "device_id is required")
	}

	user, err := h.userSvc.GetByDevice(c.Context(), deviceID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(user)
}

type ProfileRequest struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

func (h *Handler) CreateOrUpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.DeviceID == "" {
		return badRequest(c, "device_id is required")
	}

	user, created, err := h.userSvc.CreateOrUpdateProfile(c.Context(), req.DeviceID, req.Name, req.Phone)
	if err != nil {
		return h.fail(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(user)
}

type RegisterDeviceRequest struct {
	DeviceID     string  `json:"device_id"`
	ReferralCode *string `json:"referral_code,omitempty"`
}

func (h *Handler) RegisterDevice(c *fiber.Ctx) error {
	var req RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.DeviceID == "" {
		return badRequest(c, "device_id is required")
	}

	user, created, err := h.userSvc.RegisterDevice(c.Context(), req.DeviceID, req.ReferralCode)
	if err != nil {
		return h.fail(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(user)
}
