package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/repository"
	"github.com/coinledger/backend/internal/service"
)

type Handler struct {
	cfg        *config.Config
	userSvc    *service.UserService
	rewardSvc  *service.RewardService
	sessionSvc *service.SessionService
	premiumSvc *service.PremiumService
	paymentSvc *service.PaymentService
	statsSvc   *service.StatsService
	log        zerolog.Logger
}

func New(
	cfg *config.Config,
	userSvc *service.UserService,
	rewardSvc *service.RewardService,
	sessionSvc *service.SessionService,
	premiumSvc *service.PremiumService,
	paymentSvc *service.PaymentService,
	statsSvc *service.StatsService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:        cfg,
		userSvc:    userSvc,
		rewardSvc:  rewardSvc,
		sessionSvc: sessionSvc,
		premiumSvc: premiumSvc,
		paymentSvc: paymentSvc,
		statsSvc:   statsSvc,
		log:        log.With().Str("component", "handler").Logger(),
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "OK",
	})
}

// fail maps domain sentinel errors onto HTTP statuses. Unrecognized errors
// become a 500 with detail suppressed outside development mode.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidShareID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, repository.ErrAlreadyReviewed),
		errors.Is(err, repository.ErrDuplicateShare):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrPaymentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, repository.ErrDeviceExists),
		errors.Is(err, repository.ErrPaymentNotPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

	body := fiber.Map{"error": "internal server error"}
	if !h.cfg.Server.IsProduction() {
		body["details"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageParams clamps limit/offset query values to sane bounds so malformed or
// hostile values never reach the store.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset, err = strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
