package repository

import (
	"context"

	"github.com/coinledger/backend/internal/model"
)

func (r *Repository) GetStats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_premium = true AND premium_expires_at > NOW()) AS premium_users,
			(SELECT COALESCE(SUM(coins), 0) FROM users) AS total_coins,
			(SELECT COUNT(*) FROM sessions WHERE start_time >= date_trunc('day', NOW())) AS sessions_today,
			(SELECT COUNT(*) FROM sessions WHERE end_time IS NULL) AS open_sessions`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
