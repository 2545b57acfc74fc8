package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/coinledger/backend/internal/cache"
	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/model"
	"github.com/coinledger/backend/internal/repository"
)

// PaymentService tracks manually verified UPI purchases of premium. Intents
// are cached for a day so clients can poll status without hitting the store.
type PaymentService struct {
	repo       *repository.Repository
	cache      *cache.Cache
	premiumSvc *PremiumService
	cfg        *config.Config
}

func NewPaymentService(repo *repository.Repository, c *cache.Cache, premiumSvc *PremiumService, cfg *config.Config) *PaymentService {
	return &PaymentService{repo: repo, cache: c, premiumSvc: premiumSvc, cfg: cfg}
}

// CreateIntent opens a pending intent priced from the active plan.
func (s *PaymentService) CreateIntent(ctx context.Context, deviceID string, upiReference *string) (*model.PaymentIntent, error) {
	user, err := s.repo.GetUserByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	plan := s.premiumSvc.GetActivePlan(ctx)

	intent := &model.PaymentIntent{
		ID:           uuid.New(),
		UserID:       user.ID,
		DeviceID:     deviceID,
		PlanName:     plan.PlanName,
		Amount:       plan.Price,
		UPIReference: upiReference,
		Status:       model.PaymentStatusPending,
	}

	if err := s.repo.CreatePaymentIntent(ctx, intent); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.PaymentKey(intent.ID.String()), intent, s.cfg.Cache.PaymentTTL)
	return intent, nil
}

func (s *PaymentService) GetIntent(ctx context.Context, id uuid.UUID) (*model.PaymentIntent, error) {
	var cached model.PaymentIntent
	if err := s.cache.Get(ctx, cache.PaymentKey(id.String()), &cached); err == nil {
		return &cached, nil
	}

	intent, err := s.repo.GetPaymentIntent(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.PaymentKey(id.String()), intent, s.cfg.Cache.PaymentTTL)
	return intent, nil
}

// Approve activates premium for the intent's device and only then marks the
// intent completed. Activation runs first so a mid-flight failure leaves the
// intent pending and the approval retryable; the status guard in the store
// still ensures the completion itself happens once.
func (s *PaymentService) Approve(ctx context.Context, id uuid.UUID) (*model.PaymentIntent, *model.User, error) {
	intent, err := s.repo.GetPaymentIntent(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if intent.Status != model.PaymentStatusPending {
		return nil, nil, repository.ErrPaymentNotPending
	}

	user, err := s.premiumSvc.Activate(ctx, intent.DeviceID)
	if err != nil {
		return nil, nil, err
	}

	intent, err = s.repo.CompletePaymentIntent(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.cache.Set(ctx, cache.PaymentKey(intent.ID.String()), intent, s.cfg.Cache.PaymentTTL)
	return intent, user, nil
}
