package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coinledger/backend/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionResult struct {
	Session *model.Session
	User    *model.User
	// Reentry is true when the (device_id, session_id) pair was already
	// started; counters are not re-incremented in that case.
	Reentry bool
}

// StartSession creates the session row and bumps the account's app_opens and
// last_active in one transaction, creating the account with zero coins if the
// device has never been seen. referralCode is the candidate code for that
// may-create path; a collision surfaces as ErrReferralCodeTaken and the
// caller retries with a fresh code.
func (r *Repository) StartSession(ctx context.Context, deviceID, sessionID, referralCode string) (*SessionResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var session model.Session
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO sessions (device_id, session_id, start_time)
		VALUES ($1, $2, NOW())
		ON CONFLICT (device_id, session_id) DO NOTHING
		RETURNING *`,
		deviceID, sessionID).StructScan(&session)
	if errors.Is(err, sql.ErrNoRows) {
		// Idempotent re-entry: the pair exists, return it unchanged.
		if err := tx.GetContext(ctx, &session, `
			SELECT * FROM sessions WHERE device_id = $1 AND session_id = $2`,
			deviceID, sessionID); err != nil {
			return nil, err
		}
		var user model.User
		if err := tx.GetContext(ctx, &user, "SELECT * FROM users WHERE device_id = $1", deviceID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &SessionResult{Session: &session, User: &user, Reentry: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	var user model.User
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO users (device_id, coins, referral_code, app_opens, last_active)
		VALUES ($1, 0, $2, 1, NOW())
		ON CONFLICT (device_id) DO UPDATE SET
			app_opens = users.app_opens + 1,
			last_active = NOW(),
			updated_at = NOW()
		RETURNING *`,
		deviceID, referralCode).StructScan(&user)
	if err != nil {
		if isUniqueViolation(err, "users_referral_code_key") {
			return nil, ErrReferralCodeTaken
		}
		return nil, fmt.Errorf("failed to bump account counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &SessionResult{Session: &session, User: &user}, nil
}

// EndSession closes the open session and folds its duration into the
// account's running totals. The average floors at 1 so brand-new accounts
// never report a zero average.
func (r *Repository) EndSession(ctx context.Context, deviceID, sessionID string, duration int64) (*SessionResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var session model.Session
	err = tx.QueryRowxContext(ctx, `
		UPDATE sessions SET end_time = NOW(), session_duration = $3
		WHERE device_id = $1 AND session_id = $2 AND end_time IS NULL
		RETURNING *`,
		deviceID, sessionID, duration).StructScan(&session)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	var user model.User
	err = tx.QueryRowxContext(ctx, `
		UPDATE users SET
			total_session_duration = total_session_duration + $2,
			avg_session_duration = GREATEST(1, (total_session_duration + $2) / GREATEST(app_opens, 1)),
			last_active = NOW(),
			updated_at = NOW()
		WHERE device_id = $1
		RETURNING *`,
		deviceID, duration).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update session totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &SessionResult{Session: &session, User: &user}, nil
}

// AutoCloseStale closes sessions abandoned by crashed clients: no end time,
// started before the grace window, owning account inactive beyond the longer
// window. Durations are derived from elapsed wall-clock time and folded into
// the account totals in the same transaction.
func (r *Repository) AutoCloseStale(ctx context.Context, grace, inactive time.Duration) ([]model.Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var closed []model.Session
	err = tx.SelectContext(ctx, &closed, `
		UPDATE sessions s SET
			end_time = NOW(),
			auto_closed = true,
			session_duration = GREATEST(0, EXTRACT(EPOCH FROM (NOW() - s.start_time))::bigint)
		FROM users u
		WHERE s.end_time IS NULL
			AND s.start_time < NOW() - make_interval(secs => $1)
			AND u.device_id = s.device_id
			AND u.last_active < NOW() - make_interval(secs => $2)
		RETURNING s.*`,
		grace.Seconds(), inactive.Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to auto-close sessions: %w", err)
	}

	for _, session := range closed {
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET
				total_session_duration = total_session_duration + $2,
				avg_session_duration = GREATEST(1, (total_session_duration + $2) / GREATEST(app_opens, 1)),
				updated_at = NOW()
			WHERE device_id = $1`,
			session.DeviceID, session.SessionDuration)
		if err != nil {
			return nil, fmt.Errorf("failed to fold auto-closed duration: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return closed, nil
}
