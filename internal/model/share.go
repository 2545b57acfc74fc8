package model

import (
	"time"

	"github.com/google/uuid"
)

// ShareEvent records one credited share per (user, share token). The unique
// (user_id, share_id) pair is the replay-protection primitive: a retried
// share submission hits the constraint before any second credit happens.
type ShareEvent struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ShareID   uuid.UUID `json:"share_id" db:"share_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
