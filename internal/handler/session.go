package handler

import (
	"github.com/gofiber/fiber/v2"
)

type StartSessionRequest struct {
	DeviceID  string `json:"device_id"`
	SessionID string `json:"session_id"`
}

func (h *Handler) StartSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.DeviceID == "" || req.SessionID == "" {
		return badRequest(c, "device_id and session_id are required")
	}

	result, err := h.sessionSvc.Start(c.Context(), req.DeviceID, req.SessionID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"session": result.Session,
		"user":    result.User,
	})
}

type EndSessionRequest struct {
	DeviceID        string `json:"device_id"`
	SessionID       string `json:"session_id"`
	SessionDuration int64  `json:"session_duration"`
}

func (h *Handler) EndSession(c *fiber.Ctx) error {
	var req EndSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.DeviceID == "" || req.SessionID == "" {
		return badRequest(c, "device_id and session_id are required")
	}
	if req.SessionDuration < 0 {
		return badRequest(c, "session_duration must be non-negative")
	}

	result, err := h.sessionSvc.End(c.Context(), req.DeviceID, req.SessionID, req.SessionDuration)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"session": result.Session,
		"user":    result.User,
	})
}

// AutoCloseSessions is the cron-facing sweep trigger; the in-process worker
// calls the same service path.
func (h *Handler) AutoCloseSessions(c *fiber.Ctx) error {
	closed, err := h.sessionSvc.AutoClose(c.Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"closed": closed,
	})
}
