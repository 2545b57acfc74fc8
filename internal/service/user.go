package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/coinledger/backend/internal/cache"
	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/model"
	"github.com/coinledger/backend/internal/repository"
)

var (
	ErrInvalidName  = errors.New("name must not be empty")
	ErrInvalidPhone = errors.New("phone must be a 10-digit number")
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

type UserService struct {
	repo  *repository.Repository
	cache *cache.Cache
	cfg   *config.Config
}

func NewUserService(repo *repository.Repository, c *cache.Cache, cfg *config.Config) *UserService {
	return &UserService{repo: repo, cache: c, cfg: cfg}
}

// GetByDevice is the cached read path: cache first, store on miss, populate
// before returning.
func (s *UserService) GetByDevice(ctx context.Context, deviceID string) (*model.User, error) {
	var cached model.User
	if err := s.cache.Get(ctx, cache.UserKey(deviceID), &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.GetUserByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.UserKey(deviceID), user, s.cfg.Cache.AccountTTL)
	return user, nil
}

// CreateOrUpdateProfile updates name/phone for a known device or creates the
// account with the signup bonus and a fresh referral code. The second return
// value reports whether a new account was created.
func (s *UserService) CreateOrUpdateProfile(ctx context.Context, deviceID, name, phone string) (*model.User, bool, error) {
	if name == "" {
		return nil, false, ErrInvalidName
	}
	if !phonePattern.MatchString(phone) {
		return nil, false, ErrInvalidPhone
	}

	existing, err := s.repo.GetUserByDevice(ctx, deviceID)
	if err == nil {
		user, err := s.repo.UpdateProfile(ctx, existing.DeviceID, name, phone)
		if err != nil {
			return nil, false, err
		}
		s.cache.Set(ctx, cache.UserKey(deviceID), user, s.cfg.Cache.AccountTTL)
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, err
	}

	user := &model.User{
		DeviceID: deviceID,
		Name:     &name,
		Phone:    &phone,
		Coins:    s.cfg.Rewards.SignupBonus,
	}

	for attempt := 0; attempt < s.cfg.Rewards.CodeMaxRetries; attempt++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, false, err
		}
		user.ReferralCode = code

		err = s.repo.CreateUser(ctx, user)
		if errors.Is(err, repository.ErrReferralCodeTaken) {
			continue
		}
		if err != nil {
			return nil, false, err
		}

		s.cache.Set(ctx, cache.UserKey(deviceID), user, s.cfg.Cache.AccountTTL)
		return user, true, nil
	}

	return nil, false, ErrCodeGenerationExhausted
}

// RegisterDevice is idempotent: a device that is already registered comes
// back unchanged with no re-crediting. For a new device a resolvable
// referral code credits the referrer in the same transaction as the insert;
// an unknown code is silently ignored.
func (s *UserService) RegisterDevice(ctx context.Context, deviceID string, referralCode *string) (*model.User, bool, error) {
	existing, err := s.repo.GetUserByDevice(ctx, deviceID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, err
	}

	user := &model.User{DeviceID: deviceID}

	var referrer *model.User
	if referralCode != nil && *referralCode != "" {
		referrer, err = s.repo.GetUserByReferralCode(ctx, *referralCode)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, false, err
		}
		if referrer != nil {
			user.ReferredBy = referralCode
			user.Coins = s.cfg.Rewards.ReferredBonus
		}
	}

	var referrerID *int64
	if referrer != nil {
		referrerID = &referrer.ID
	}

	for attempt := 0; attempt < s.cfg.Rewards.CodeMaxRetries; attempt++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, false, err
		}
		user.ReferralCode = code

		err = s.repo.RegisterUser(ctx, user, referrerID, s.cfg.Rewards.ReferralBonus)
		if errors.Is(err, repository.ErrReferralCodeTaken) {
			continue
		}
		if errors.Is(err, repository.ErrDeviceExists) {
			// Lost a concurrent registration race; the winner's account is
			// the canonical one.
			winner, getErr := s.repo.GetUserByDevice(ctx, deviceID)
			if getErr != nil {
				return nil, false, getErr
			}
			return winner, false, nil
		}
		if err != nil {
			return nil, false, err
		}

		s.cache.Set(ctx, cache.UserKey(deviceID), user, s.cfg.Cache.AccountTTL)
		if referrer != nil {
			s.cache.Delete(ctx, cache.UserKey(referrer.DeviceID))
		}
		return user, true, nil
	}

	return nil, false, ErrCodeGenerationExhausted
}
