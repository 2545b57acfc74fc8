package handler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := h.statsSvc.GetStats(c.Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(stats)
}
