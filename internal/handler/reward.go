package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type SubmitReviewRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *Handler) SubmitReview(c *fiber.Ctx) error {
	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}

	user, err := h.rewardSvc.SubmitReview(c.Context(), req.UserID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(user)
}

type ShareAppRequest struct {
	UserID  int64  `json:"user_id"`
	ShareID string `json:"share_id"`
}

func (h *Handler) ShareApp(c *fiber.Ctx) error {
	var req ShareAppRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}
	if req.ShareID == "" {
		return badRequest(c, "share_id is required")
	}

	user, err := h.rewardSvc.ShareApp(c.Context(), req.UserID, req.ShareID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(user)
}

func (h *Handler) GetShareHistory(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return badRequest(c, "user_id is required")
	}

	limit, offset := pageParams(c)

	events, err := h.rewardSvc.GetShareHistory(c.Context(), userID, limit, offset)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"shares": events,
	})
}
