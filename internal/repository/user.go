package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coinledger/backend/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDeviceExists      = errors.New("device already registered")
	ErrReferralCodeTaken = errors.New("referral code already taken")
)

func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByDevice(ctx context.Context, deviceID string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE device_id = $1", deviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE referral_code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new account. The device_id and referral_code unique
// constraints turn lost races into ErrDeviceExists / ErrReferralCodeTaken;
// callers regenerate the code and retry on the latter.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (device_id, name, phone, coins, referral_code, referred_by, last_active)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING *`

	err := r.db.QueryRowxContext(ctx, query,
		user.DeviceID,
		user.Name,
		user.Phone,
		user.Coins,
		user.ReferralCode,
		user.ReferredBy,
	).StructScan(user)
	if err != nil {
		if isUniqueViolation(err, "users_device_id_key") {
			return ErrDeviceExists
		}
		if isUniqueViolation(err, "users_referral_code_key") {
			return ErrReferralCodeTaken
		}
		return err
	}
	return nil
}

// RegisterUser creates the account and, when referrerID is set, credits the
// referrer's bonus in the same transaction. The credit is an atomic
// store-level increment, never a read-modify-write in request memory.
func (r *Repository) RegisterUser(ctx context.Context, user *model.User, referrerID *int64, referralBonus int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (device_id, coins, referral_code, referred_by, last_active)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING *`

	err = tx.QueryRowxContext(ctx, query,
		user.DeviceID,
		user.Coins,
		user.ReferralCode,
		user.ReferredBy,
	).StructScan(user)
	if err != nil {
		if isUniqueViolation(err, "users_device_id_key") {
			return ErrDeviceExists
		}
		if isUniqueViolation(err, "users_referral_code_key") {
			return ErrReferralCodeTaken
		}
		return err
	}

	if referrerID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET coins = coins + $2, updated_at = NOW()
			WHERE id = $1`,
			*referrerID, referralBonus)
		if err != nil {
			return fmt.Errorf("failed to credit referrer: %w", err)
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateProfile(ctx context.Context, deviceID, name, phone string) (*model.User, error) {
	var user model.User
	query := `
		UPDATE users SET
			name = $2,
			phone = $3,
			last_active = NOW(),
			updated_at = NOW()
		WHERE device_id = $1
		RETURNING *`

	err := r.db.QueryRowxContext(ctx, query, deviceID, name, phone).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
