package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinledger/backend/internal/model"
)

func TestGetUserByDeviceNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE device_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByDevice(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUserMapsConstraintViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"duplicate device", "users_device_id_key", ErrDeviceExists},
		{"duplicate referral code", "users_referral_code_key", ErrReferralCodeTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			name, phone := "Asha", "9876543210"
			err := repo.CreateUser(context.Background(), &model.User{
				DeviceID:     "dev-1",
				Name:         &name,
				Phone:        &phone,
				Coins:        5,
				ReferralCode: "GM123456",
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterUserCreditsReferrerInSameTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	referrerID := int64(1)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "coins", "referral_code", "referred_by"}).
			AddRow(2, "dev-2", 0, "GM654321", "GM123456"))
	mock.ExpectExec("UPDATE users SET coins = coins \\+ \\$2").
		WithArgs(referrerID, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	code := "GM123456"
	user := &model.User{DeviceID: "dev-2", ReferralCode: "GM654321", ReferredBy: &code}
	err := repo.RegisterUser(context.Background(), user, &referrerID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUserRollsBackOnCreditFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	referrerID := int64(1)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "coins", "referral_code"}).
			AddRow(2, "dev-2", 0, "GM654321"))
	mock.ExpectExec("UPDATE users SET coins = coins \\+ \\$2").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	user := &model.User{DeviceID: "dev-2", ReferralCode: "GM654321"}
	err := repo.RegisterUser(context.Background(), user, &referrerID, 10)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
