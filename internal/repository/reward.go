package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinledger/backend/internal/model"
)

var (
	ErrAlreadyReviewed = errors.New("review bonus already claimed")
	ErrDuplicateShare  = errors.New("share already credited")
)

// AwardReview credits the review bonus exactly once. The has_reviewed flag
// is checked under a row lock so two concurrent calls cannot both credit.
func (r *Repository) AwardReview(ctx context.Context, userID, bonus int64) (*model.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var hasReviewed bool
	err = tx.GetContext(ctx, &hasReviewed, "SELECT has_reviewed FROM users WHERE id = $1 FOR UPDATE", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}

	if hasReviewed {
		return nil, ErrAlreadyReviewed
	}

	var user model.User
	err = tx.QueryRowxContext(ctx, `
		UPDATE users SET coins = coins + $2, has_reviewed = true, updated_at = NOW()
		WHERE id = $1
		RETURNING *`,
		userID, bonus).StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to credit review bonus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &user, nil
}

// AwardShare inserts the share event and credits the bonus in one
// transaction. The insert runs first so a replayed share_id is rejected by
// the (user_id, share_id) constraint before any second credit occurs.
func (r *Repository) AwardShare(ctx context.Context, userID int64, shareID uuid.UUID, bonus int64) (*model.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO share_events (user_id, share_id) VALUES ($1, $2)`,
		userID, shareID)
	if err != nil {
		if isUniqueViolation(err, "share_events_user_id_share_id_key") {
			return nil, ErrDuplicateShare
		}
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to record share event: %w", err)
	}

	var user model.User
	err = tx.QueryRowxContext(ctx, `
		UPDATE users SET coins = coins + $2, share_count = share_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING *`,
		userID, bonus).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to credit share bonus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetShareEvents returns credited shares for a user, newest first.
func (r *Repository) GetShareEvents(ctx context.Context, userID int64, limit, offset int) ([]model.ShareEvent, error) {
	var events []model.ShareEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT * FROM share_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	return events, err
}
