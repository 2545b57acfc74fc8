package service

import (
	"context"
	"errors"

	"github.com/coinledger/backend/internal/cache"
	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/repository"
)

type SessionService struct {
	repo  *repository.Repository
	cache *cache.Cache
	cfg   *config.Config
}

func NewSessionService(repo *repository.Repository, c *cache.Cache, cfg *config.Config) *SessionService {
	return &SessionService{repo: repo, cache: c, cfg: cfg}
}

// Start opens a session and bumps app_opens, creating a zero-balance account
// for an unseen device. app_opens counts session starts only; a repeated
// start with the same pair is idempotent re-entry and bumps nothing.
func (s *SessionService) Start(ctx context.Context, deviceID, sessionID string) (*repository.SessionResult, error) {
	for attempt := 0; attempt < s.cfg.Rewards.CodeMaxRetries; attempt++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, err
		}

		result, err := s.repo.StartSession(ctx, deviceID, sessionID, code)
		if errors.Is(err, repository.ErrReferralCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.cache.Set(ctx, cache.UserKey(deviceID), result.User, s.cfg.Cache.AccountTTL)
		return result, nil
	}

	return nil, ErrCodeGenerationExhausted
}

func (s *SessionService) End(ctx context.Context, deviceID, sessionID string, duration int64) (*repository.SessionResult, error) {
	result, err := s.repo.EndSession(ctx, deviceID, sessionID, duration)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.UserKey(deviceID), result.User, s.cfg.Cache.AccountTTL)
	return result, nil
}

// AutoClose sweeps sessions abandoned by crashed clients and returns how
// many were closed. Affected account projections are invalidated rather
// than rewritten; the next read repopulates them.
func (s *SessionService) AutoClose(ctx context.Context) (int, error) {
	closed, err := s.repo.AutoCloseStale(ctx, s.cfg.Sessions.GraceWindow, s.cfg.Sessions.InactiveWindow)
	if err != nil {
		return 0, err
	}

	for _, session := range closed {
		s.cache.Delete(ctx, cache.UserKey(session.DeviceID))
	}
	return len(closed), nil
}
