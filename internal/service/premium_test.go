package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/repository"
)

func newPremiumService(t *testing.T) (*PremiumService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := repository.NewWithDB(sqlx.NewDb(db, "sqlmock"))
	return NewPremiumService(repo, noCache, testConfig()), mock
}

func TestGetActivePlanFallsBackWhenUnconfigured(t *testing.T) {
	svc, mock := newPremiumService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM premium_plans WHERE is_active = true")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	plan := svc.GetActivePlan(context.Background())
	assert.Equal(t, config.FallbackPlanName, plan.PlanName)
	assert.Equal(t, int64(config.FallbackPlanPrice), plan.Price)
	assert.Equal(t, config.FallbackPlanDuration, plan.DurationDays)
}

func TestGetActivePlanFallsBackWhenStoreUnreachable(t *testing.T) {
	svc, mock := newPremiumService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM premium_plans WHERE is_active = true")).
		WillReturnError(assert.AnError)

	plan := svc.GetActivePlan(context.Background())
	assert.Equal(t, config.FallbackPlanName, plan.PlanName)
}

func TestGetActivePlanReadsConfiguredRow(t *testing.T) {
	svc, mock := newPremiumService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM premium_plans WHERE is_active = true")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "duration_days", "is_active"}).
			AddRow(1, "Gold", 99, 90, true))

	plan := svc.GetActivePlan(context.Background())
	assert.Equal(t, "Gold", plan.PlanName)
	assert.Equal(t, int64(99), plan.Price)
	assert.Equal(t, 90, plan.DurationDays)
}

func TestStatusReportsActiveWindow(t *testing.T) {
	svc, mock := newPremiumService(t)

	expires := time.Now().Add(30 * 24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE device_id = $1")).
		WithArgs("dev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "is_premium", "premium_expires_at", "referral_code"}).
			AddRow(1, "dev-1", true, expires, "GM123456"))

	status, err := svc.Status(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.True(t, status.PremiumActive)
	assert.InDelta(t, 30, status.DaysRemaining, 1)
}

func TestStatusReportsExpiredWindow(t *testing.T) {
	svc, mock := newPremiumService(t)

	expires := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE device_id = $1")).
		WithArgs("dev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "is_premium", "premium_expires_at", "referral_code"}).
			AddRow(1, "dev-1", true, expires, "GM123456"))

	status, err := svc.Status(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.False(t, status.PremiumActive)
	assert.Equal(t, 0, status.DaysRemaining)
}

func TestStatusUnknownDevice(t *testing.T) {
	svc, mock := newPremiumService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE device_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Status(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUpdatePricingReplacesActiveRow(t *testing.T) {
	svc, mock := newPremiumService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE premium_plans SET is_active = false").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO premium_plans").
		WithArgs("Gold", int64(99), 90).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_name", "price", "duration_days", "is_active"}).
			AddRow(2, "Gold", 99, 90, true))
	mock.ExpectCommit()

	plan, err := svc.UpdatePricing(context.Background(), "Gold", 99, 90)
	require.NoError(t, err)
	assert.Equal(t, "Gold", plan.PlanName)
	assert.True(t, plan.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}
