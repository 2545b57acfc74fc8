package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "sqlmock")), mock
}

func TestAwardReviewCreditsOnce(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT has_reviewed FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"has_reviewed"}).AddRow(false))
	mock.ExpectQuery("UPDATE users SET coins = coins \\+ \\$2, has_reviewed = true").
		WithArgs(int64(7), int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "coins", "has_reviewed", "referral_code"}).
			AddRow(7, "dev-1", 55, true, "GM123456"))
	mock.ExpectCommit()

	user, err := repo.AwardReview(context.Background(), 7, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(55), user.Coins)
	assert.True(t, user.HasReviewed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardReviewAlreadyReviewed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT has_reviewed FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"has_reviewed"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.AwardReview(context.Background(), 7, 50)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardReviewUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT has_reviewed FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"has_reviewed"}))
	mock.ExpectRollback()

	_, err := repo.AwardReview(context.Background(), 404, 50)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAwardShareCreditsAndCounts(t *testing.T) {
	repo, mock := newMockRepo(t)
	shareID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO share_events").
		WithArgs(int64(7), shareID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE users SET coins = coins \\+ \\$2, share_count = share_count \\+ 1").
		WithArgs(int64(7), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "coins", "share_count"}).
			AddRow(7, "dev-1", 15, 1))
	mock.ExpectCommit()

	user, err := repo.AwardShare(context.Background(), 7, shareID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(15), user.Coins)
	assert.Equal(t, int64(1), user.ShareCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardShareDuplicateRejectedBeforeCredit(t *testing.T) {
	repo, mock := newMockRepo(t)
	shareID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO share_events").
		WithArgs(int64(7), shareID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "share_events_user_id_share_id_key"})
	mock.ExpectRollback()

	_, err := repo.AwardShare(context.Background(), 7, shareID, 10)
	assert.ErrorIs(t, err, ErrDuplicateShare)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardShareUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	shareID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO share_events").
		WithArgs(int64(404), shareID).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "share_events_user_id_fkey"})
	mock.ExpectRollback()

	_, err := repo.AwardShare(context.Background(), 404, shareID, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
