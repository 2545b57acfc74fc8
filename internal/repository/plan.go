package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coinledger/backend/internal/model"
)

var ErrPlanNotFound = errors.New("plan not found")

func (r *Repository) GetActivePlan(ctx context.Context) (*model.PremiumPlan, error) {
	var plan model.PremiumPlan
	err := r.db.GetContext(ctx, &plan, `
		SELECT * FROM premium_plans WHERE is_active = true
		ORDER BY updated_at DESC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) ListPlans(ctx context.Context, limit, offset int) ([]model.PremiumPlan, error) {
	var plans []model.PremiumPlan
	err := r.db.SelectContext(ctx, &plans, `
		SELECT * FROM premium_plans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	return plans, err
}

// UpsertActivePlan replaces the single active pricing row: previous active
// plans are deactivated and the new one inserted in the same transaction.
func (r *Repository) UpsertActivePlan(ctx context.Context, planName string, price int64, durationDays int) (*model.PremiumPlan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "UPDATE premium_plans SET is_active = false, updated_at = NOW() WHERE is_active = true")
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate plans: %w", err)
	}

	var plan model.PremiumPlan
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO premium_plans (plan_name, price, duration_days, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING *`,
		planName, price, durationDays).StructScan(&plan)
	if err != nil {
		return nil, fmt.Errorf("failed to insert plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ActivatePremium opens (or resets) the entitlement window from now. A
// re-activation replaces the window rather than stacking onto it.
func (r *Repository) ActivatePremium(ctx context.Context, deviceID string, durationDays int) (*model.User, error) {
	var user model.User
	err := r.db.QueryRowxContext(ctx, `
		UPDATE users SET
			is_premium = true,
			premium_purchased_at = NOW(),
			premium_expires_at = NOW() + make_interval(days => $2),
			updated_at = NOW()
		WHERE device_id = $1
		RETURNING *`,
		deviceID, durationDays).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
