package service

import (
	"context"

	"github.com/coinledger/backend/internal/cache"
	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/model"
	"github.com/coinledger/backend/internal/repository"
)

type PremiumService struct {
	repo  *repository.Repository
	cache *cache.Cache
	cfg   *config.Config
}

func NewPremiumService(repo *repository.Repository, c *cache.Cache, cfg *config.Config) *PremiumService {
	return &PremiumService{repo: repo, cache: c, cfg: cfg}
}

func fallbackPlan() *model.PremiumPlan {
	return &model.PremiumPlan{
		PlanName:     config.FallbackPlanName,
		Price:        config.FallbackPlanPrice,
		DurationDays: config.FallbackPlanDuration,
		IsActive:     true,
	}
}

// GetActivePlan never fails: with no configured row, or with the store
// unreachable, it serves the hardcoded fallback pricing.
func (s *PremiumService) GetActivePlan(ctx context.Context) *model.PremiumPlan {
	var cached model.PremiumPlan
	if err := s.cache.Get(ctx, cache.PricingKey(), &cached); err == nil {
		return &cached
	}

	plan, err := s.repo.GetActivePlan(ctx)
	if err != nil {
		return fallbackPlan()
	}

	s.cache.Set(ctx, cache.PricingKey(), plan, s.cfg.Cache.CatalogTTL)
	return plan
}

// Activate opens the entitlement window for the plan's duration. An already
// premium account has its window reset from now, not stacked.
func (s *PremiumService) Activate(ctx context.Context, deviceID string) (*model.User, error) {
	plan := s.GetActivePlan(ctx)

	user, err := s.repo.ActivatePremium(ctx, deviceID, plan.DurationDays)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.UserKey(deviceID), user, s.cfg.Cache.AccountTTL)
	return user, nil
}

// Status evaluates the entitlement lazily at read time; expiry is never
// swept, only observed.
func (s *PremiumService) Status(ctx context.Context, deviceID string) (*model.PremiumStatus, error) {
	var user *model.User

	var cached model.User
	if err := s.cache.Get(ctx, cache.UserKey(deviceID), &cached); err == nil {
		user = &cached
	} else {
		stored, err := s.repo.GetUserByDevice(ctx, deviceID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, cache.UserKey(deviceID), stored, s.cfg.Cache.AccountTTL)
		user = stored
	}

	return &model.PremiumStatus{
		PremiumActive: user.PremiumActive(),
		ExpiresAt:     user.PremiumExpiresAt,
		DaysRemaining: user.PremiumDaysRemaining(),
	}, nil
}

// UpdatePricing upserts the single active plan and invalidates the cached
// pricing after the store commit.
func (s *PremiumService) UpdatePricing(ctx context.Context, planName string, price int64, durationDays int) (*model.PremiumPlan, error) {
	plan, err := s.repo.UpsertActivePlan(ctx, planName, price, durationDays)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.PricingKey())
	return plan, nil
}

// ListPlans serves catalog pages from cache per (limit, offset) key. New
// plan rows do not proactively invalidate existing pages; staleness is
// bounded by the catalog TTL.
func (s *PremiumService) ListPlans(ctx context.Context, limit, offset int) ([]model.PremiumPlan, error) {
	var cached []model.PremiumPlan
	if err := s.cache.Get(ctx, cache.PlanPageKey(limit, offset), &cached); err == nil {
		return cached, nil
	}

	plans, err := s.repo.ListPlans(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.PlanPageKey(limit, offset), plans, s.cfg.Cache.CatalogTTL)
	return plans, nil
}
