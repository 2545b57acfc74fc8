package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/coinledger/backend/internal/cache"
	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/model"
	"github.com/coinledger/backend/internal/repository"
)

var ErrInvalidShareID = errors.New("share_id must be a canonical UUID")

type RewardService struct {
	repo  *repository.Repository
	cache *cache.Cache
	cfg   *config.Config
}

func NewRewardService(repo *repository.Repository, c *cache.Cache, cfg *config.Config) *RewardService {
	return &RewardService{repo: repo, cache: c, cfg: cfg}
}

// SubmitReview credits the one-time review bonus. Exactly-once comes from
// the has_reviewed flag check inside the store transaction; the cache is
// refreshed only after that transaction commits.
func (s *RewardService) SubmitReview(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.AwardReview(ctx, userID, s.cfg.Rewards.ReviewBonus)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.UserKey(user.DeviceID), user, s.cfg.Cache.AccountTTL)
	return user, nil
}

// ShareApp credits the share bonus once per client-supplied share token. A
// retried call with the same token is rejected by the share-event constraint
// before any second credit.
func (s *RewardService) ShareApp(ctx context.Context, userID int64, shareID string) (*model.User, error) {
	id, err := uuid.Parse(shareID)
	if err != nil {
		return nil, ErrInvalidShareID
	}

	user, err := s.repo.AwardShare(ctx, userID, id, s.cfg.Rewards.ShareBonus)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.UserKey(user.DeviceID), user, s.cfg.Cache.AccountTTL)
	return user, nil
}

func (s *RewardService) GetShareHistory(ctx context.Context, userID int64, limit, offset int) ([]model.ShareEvent, error) {
	return s.repo.GetShareEvents(ctx, userID, limit, offset)
}
